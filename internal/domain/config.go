package domain

// Config is the propertizer configuration after flags and the config file
// have been layered.
type Config struct {
	Application FileConfig
	Target      FileConfig
	DataSource  DataSourceConfig
	KMS         KMSConfig
	IIQ         IIQConfig
	Runs        RunsConfig
	EnvFile     string
}

// FileConfig locates one destination file. Output defaults to Input.
type FileConfig struct {
	Input  string
	Output string
}

// OutputPath returns Output, or Input when Output is unset.
func (f FileConfig) OutputPath() string {
	if f.Output != "" {
		return f.Output
	}
	return f.Input
}

// DataSourceConfig holds raw option tokens (see OptionToken).
type DataSourceConfig struct {
	Username string
	Password string
	URL      string
}

// KMSConfig selects the decrypt backend. KeyID empty means the echo stub.
// Static keys are optional; without them the default AWS credential chain
// is used. RoleARN, when set, is assumed on top of the base credentials.
type KMSConfig struct {
	KeyID      string
	Region     string
	RoleARN    string
	ExternalID string

	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

type IIQConfig struct {
	// Command is the IIQ launcher used for "encrypt" and "console".
	Command string
}

// RunsConfig enables run records. Dir empty means runs are not recorded.
type RunsConfig struct {
	Dir   string
	Index bool
}

// DefaultConfig provides sane defaults if the config file is partially missing.
func DefaultConfig() Config {
	return Config{
		IIQ: IIQConfig{Command: "iiq"},
	}
}

// Property keys written from the datasource options.
const (
	DataSourceURLKey      = "dataSource.url"
	DataSourceUserKey     = "dataSource.username"
	DataSourcePasswordKey = "dataSource.password"
)

// VerbatimSecretKeys are infrastructure keys whose decrypted value is written
// and reported in clear instead of being re-encrypted.
var VerbatimSecretKeys = map[string]bool{
	DataSourceURLKey:  true,
	DataSourceUserKey: true,
}
