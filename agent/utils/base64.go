package utils

import "encoding/base64"

// DecodeB64 decodes URL safe base64 with or without padding. Some agents use
// the standard alphabet for the same fields, which is accepted as a fallback.
func DecodeB64(str string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(str)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(str)
	}
	if err != nil {
		data, err = base64.StdEncoding.DecodeString(str)
	}
	return data, err
}

// EncodeB64 encodes to URL safe base64 with padding, which is the format of
// the signature decorator fields.
func EncodeB64(data []byte) string {
	return base64.URLEncoding.EncodeToString(data)
}
