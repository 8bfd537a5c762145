// File: types.go
package main

import "captcha"

// renderOutput is printed by `captcha render --json`
type renderOutput struct {
	UUID   string       `json:"uuid"`
	Kind   captcha.Kind `json:"kind"`
	Image  string       `json:"image"`            // Base64 PNG
	File   string       `json:"file,omitempty"`   // 写入的 PNG 路径
	Answer string       `json:"answer,omitempty"` // 仅在 --answer 时输出
}
