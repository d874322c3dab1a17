package util

import "encoding/base64"

// DataURL inlines binary content as a base64 data URL. Used as the storage
// fallback when no object-storage bucket is configured.
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
