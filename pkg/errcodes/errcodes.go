package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InvalidPayload      failure.ErrorCode = "InvalidPayload"
	NormalizationFailed failure.ErrorCode = "NormalizationFailed"
	UnknownState        failure.ErrorCode = "UnknownState"
	InternalServerError failure.ErrorCode = "InternalError"
)
