package device

import "errors"

var ErrDeviceNotFound = errors.New("biometric device not found")
