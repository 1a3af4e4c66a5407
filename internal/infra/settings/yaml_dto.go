package settings

type yamlConfig struct {
	Propertizer struct {
		Application yamlFile       `yaml:"application"`
		Target      yamlFile       `yaml:"target"`
		DataSource  yamlDataSource `yaml:"datasource"`

		KMS struct {
			KeyID           string `yaml:"key_id"`
			Region          string `yaml:"region"`
			RoleARN         string `yaml:"role_arn"`
			ExternalID      string `yaml:"external_id"`
			AccessKeyID     string `yaml:"access_key_id"`
			SecretAccessKey string `yaml:"secret_access_key"`
			SessionToken    string `yaml:"session_token"`
		} `yaml:"kms"`

		IIQ struct {
			Command string `yaml:"command"`
		} `yaml:"iiq"`

		Runs struct {
			Dir   string `yaml:"dir"`
			Index bool   `yaml:"index"`
		} `yaml:"runs"`

		EnvFile string `yaml:"env_file"`
	} `yaml:"propertizer"`
}

type yamlFile struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type yamlDataSource struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	URL      string `yaml:"url"`
}
