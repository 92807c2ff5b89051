package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"data directory"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:   ":8080",
		Dir:        "data",
		ShowBanner: true,
	}
}
