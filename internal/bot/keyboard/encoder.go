package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CallbackDataSeparator = ":"
	// CallbackDataLimitBytes is the Telegram hard limit for callback data.
	CallbackDataLimitBytes = 64
)

// EncodeCallback joins an action identifier with its payload into callback
// data, enforcing the Telegram byte limit.
func EncodeCallback(unique, data string) (string, error) {
	if data == "" {
		if len(unique) > CallbackDataLimitBytes {
			return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(unique))
		}
		return unique, nil
	}

	payload := unique + CallbackDataSeparator + data
	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload))
	}

	return payload, nil
}

// DecodeCallback splits callback data back into the action identifier and
// its payload.
func DecodeCallback(callbackData string) (unique, data string, err error) {
	if callbackData == "" {
		return "", "", errors.New("callback data is empty")
	}

	idx := strings.Index(callbackData, CallbackDataSeparator)
	if idx == -1 {
		return callbackData, "", nil
	}

	return callbackData[:idx], callbackData[idx+len(CallbackDataSeparator):], nil
}
