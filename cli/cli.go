package cli

import "github.com/absmach/quadra/pkg/sdk"

var (
	DefTLSVerification = false
	DefManagerURL      = "http://localhost:7070"
)

var qsdk sdk.SDK

func SetSDK(s sdk.SDK) {
	qsdk = s
}
