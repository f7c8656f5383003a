package model

import (
	"encoding/json"

	"github.com/gobuffalo/packr"
)

// StaticResources holds resources built into the engine binary.
var StaticResources = packr.NewBox("./resources")

// FallbackMaterial returns the built-in material applied to models
// imported without any material of their own.
func FallbackMaterial() (*Material, error) {
	raw, err := StaticResources.Find("fallback.json")
	if err != nil {
		return nil, err
	}
	var mat Material
	if err := json.Unmarshal(raw, &mat); err != nil {
		return nil, err
	}
	return &mat, nil
}
