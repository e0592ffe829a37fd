package cfg

type Cfg struct {
	// Sync configuration
	DataFile    string
	ProfilesDir string
	Profile     string
	HistoryDB   string

	// Serve mode
	Serve        bool
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
