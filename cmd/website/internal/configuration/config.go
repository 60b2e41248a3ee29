package configuration

import (
	"github.com/adampresley/configinator"
	"github.com/joho/godotenv"
)

type Config struct {
	AwsEndpointUrl         string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion              string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsAccessKeyId         string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey     string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket              string `flag:"awsbucket" env:"AWS_BUCKET" default:"kidzart" description:"S3 bucket"`
	ArtworkFolder          string `flag:"artworkfolder" env:"ARTWORK_FOLDER" default:"artwork" description:"S3 folder for uploaded artwork"`
	CookieSecret           string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DBDriver               string `flag:"dbdriver" env:"DB_DRIVER" default:"sqlite" description:"Database driver. Valid values are 'sqlite' and 'postgres'"`
	DownloadBaseURL        string `flag:"dlb" env:"DOWNLOAD_BASE_URL" default:"http://localhost:8081" description:"Base URL for portfolio download links"`
	DownloadExpirationDays int    `flag:"dle" env:"DOWNLOAD_EXPIRATION_DAYS" default:"7" description:"Number of days before portfolio downloads expire"`
	DSN                    string `flag:"dsn" env:"DSN" default:"file:./data/kidzart.db" description:"Data source name"`
	EmailApiKey            string `flag:"emailapikey" env:"EMAIL_API_KEY" default:"" description:"API key for sending emails"`
	EmailFromAddress       string `flag:"emailfrom" env:"EMAIL_FROM_ADDRESS" default:"" description:"Address emails are sent from"`
	EmailFromName          string `flag:"emailfromname" env:"EMAIL_FROM_NAME" default:"Kidzart" description:"Name emails are sent from"`
	Host                   string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	ImageBaseURL           string `flag:"imagebaseurl" env:"IMAGE_BASE_URL" default:"" description:"Public base URL of the artwork bucket. Presigned URLs are used when empty"`
	LogLevel               string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxThumbnailWorkers    int    `flag:"mtw" env:"MAX_THUMBNAIL_WORKERS" default:"10" description:"Maximum number of concurrent thumbnail workers"`
	PrintfulApiKey         string `flag:"printfulapikey" env:"PRINTFUL_API_KEY" default:"" description:"API key for the Printful print-on-demand service"`
	PrintfulApiURL         string `flag:"printfulapiurl" env:"PRINTFUL_API_URL" default:"https://api.printful.com" description:"Printful API base URL"`
	PublishToCatalog       bool   `flag:"publish" env:"PUBLISH_TO_CATALOG" default:"false" description:"Also publish uploads to the shared artwork catalog table"`
	ThumbnailIntervalMins  int    `flag:"thumbinterval" env:"THUMBNAIL_INTERVAL_MINUTES" default:"15" description:"Minutes between thumbnail worker runs"`
}

/*
SetupStatus reports which optional integrations have what they need to
run. Pages use it to show a setup notice instead of failing later.
*/
type SetupStatus struct {
	FulfillmentReady   bool
	EmailReady         bool
	RemoteCatalogReady bool
}

func (c Config) SetupStatus() SetupStatus {
	return SetupStatus{
		FulfillmentReady:   c.PrintfulApiKey != "",
		EmailReady:         c.EmailApiKey != "" && c.EmailFromAddress != "",
		RemoteCatalogReady: c.PublishToCatalog,
	}
}

/*
LoadConfig reads .env.local and .env into the environment when present,
then parses flags and environment variables. Variables already set in the
environment win.
*/
func LoadConfig() Config {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := Config{}
	configinator.Behold(&config)
	return config
}
