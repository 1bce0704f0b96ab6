package base64

import (
	stdbase64 "encoding/base64"
	"errors"
	"strings"
)

const (
	DataURIPrefix = "data:"
	dataURISep    = ";base64,"
)

var ErrInvalidDataURI = errors.New("invalid base64 data uri")

func GetContentType(file string) string {
	start := len(DataURIPrefix)
	end := strings.Index(file, dataURISep)

	if !strings.HasPrefix(file, DataURIPrefix) || end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// Decode splits a data URI into its content type and decoded payload.
func Decode(file string) (contentType string, data []byte, err error) {
	contentType = GetContentType(file)
	if contentType == "" {
		return "", nil, ErrInvalidDataURI
	}

	payload := file[strings.Index(file, dataURISep)+len(dataURISep):]

	data, err = stdbase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidDataURI, err)
	}

	return contentType, data, nil
}
