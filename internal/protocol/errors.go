package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrBadVersion      = "E_BAD_VERSION"

	// Request layer.
	ErrOutOfArea = "E_OUT_OF_AREA"
	ErrBadLayer  = "E_BAD_LAYER"
	ErrBadBlock  = "E_BAD_BLOCK"
	ErrInternal  = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadVersion:      {},
	ErrOutOfArea:       {},
	ErrBadLayer:        {},
	ErrBadBlock:        {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
