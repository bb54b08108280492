package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	HttpsEnabled      bool   `usage:"serve HTTPS with HttpsCert and HttpsKey"`
	HttpsCert         string `usage:"TLS certificate file"`
	HttpsKey          string `usage:"TLS private key file"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	ApiKey            string `usage:"required X-Api-Key header, empty disables authentication"`
	ApiSecret         string `usage:"required X-Api-Secret header"`
	Dir               string `usage:"data directory"`
	KeyField          string `usage:"default key field for new collections"`
	Capacity          int    `usage:"default slot capacity hint for new collections"`
	LogLevel          string `usage:"log level: debug | info | warn | error"`
	LogFormat         string `usage:"log format: text | json"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:          "127.0.0.1:8080",
		HttpsEnabled:      false,
		EnableCompression: true,
		Dir:               "data",
		KeyField:          "id",
		Capacity:          0,
		LogLevel:          "info",
		LogFormat:         "text",
		Version:           false,
		ShowBanner:        true,
		ShowConfig:        false,
	}
}
