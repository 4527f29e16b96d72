package relayer

import "errors"

var errUnknownEventType = errors.New("unknown event type in registry")
