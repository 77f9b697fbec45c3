package utils

var version = "0.1.0"

func GetVersion() string {
	return version
}
