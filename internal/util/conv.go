package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomString 生成指定长度的随机十六进制字符串
func GenerateRandomString(length int) string {
	buf := make([]byte, (length+1)/2)
	rand.Read(buf)
	return hex.EncodeToString(buf)[:length]
}
