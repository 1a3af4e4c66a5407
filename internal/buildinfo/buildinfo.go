package buildinfo

import "fmt"

// Name is the binary name used in help, version output and the AWS user agent.
const Name = "propertizer"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("%s %s (commit=%s, date=%s)", Name, Version, Commit, Date)
}

// AppID identifies this build in the user agent of AWS SDK requests, so KMS
// calls from propertizer can be told apart in CloudTrail.
func AppID() string {
	id := Name + "-" + Version
	if len(id) > 50 {
		id = id[:50]
	}
	return id
}
