package build

import "errors"

// Sentinel errors naming the stage a build failed in. They are always
// wrapped with context at the call site.
var (
	ErrAggregate = errors.New("aggregate content sources")
	ErrConvert   = errors.New("convert pages")
	ErrPublish   = errors.New("publish site")
)
