package model

// MenuEntry lists the type links of one namespace.
type MenuEntry struct {
	Namespace string   `json:"namespace" yaml:"namespace"`
	TypeLinks []string `json:"typeLinks" yaml:"typeLinks"`
}
