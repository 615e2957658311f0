package cfg

type Cfg struct {
	// Storage configuration
	DBPath       string
	StorageQuota int64

	// Application configuration
	Port           string
	APIAccessKey   string
	BackupDir      string
	BackupInterval int
	WorkerCount    int
	StrictRefs     bool

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
