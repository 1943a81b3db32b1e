package settings

import (
	"context"
	"log"
)

// AppSettings are the typed user preferences with their defaults applied.
type AppSettings struct {
	Theme                   string `json:"theme"`
	CompactMode             bool   `json:"compactMode"`
	DefaultProjectView      string `json:"defaultProjectView"`
	AutoGeneratePrompts     bool   `json:"autoGeneratePrompts"`
	DefaultTaskComplexity   string `json:"defaultTaskComplexity"`
	SoftDeleteRetentionDays int    `json:"softDeleteRetentionDays"`
	DefaultAIModel          string `json:"defaultAiModel"`
}

func Defaults() AppSettings {
	return AppSettings{
		Theme:                   "system",
		CompactMode:             false,
		DefaultProjectView:      "kanban",
		AutoGeneratePrompts:     false,
		DefaultTaskComplexity:   "MEDIUM",
		SoftDeleteRetentionDays: 30,
		DefaultAIModel:          DefaultModel,
	}
}

// Load reads every stored setting over the defaults. Values of the wrong
// type are ignored.
func (r *Resolver) Load(ctx context.Context) AppSettings {
	out := Defaults()
	rows, err := r.store.List(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load settings: %v", err)
		return out
	}

	for _, row := range rows {
		v := Decode(row.Value)
		switch row.Key {
		case "theme":
			setString(&out.Theme, v)
		case "defaultProjectView":
			setString(&out.DefaultProjectView, v)
		case "defaultTaskComplexity":
			setString(&out.DefaultTaskComplexity, v)
		case "defaultAiModel":
			setString(&out.DefaultAIModel, v)
		case "compactMode":
			setBool(&out.CompactMode, v)
		case "autoGeneratePrompts":
			setBool(&out.AutoGeneratePrompts, v)
		case "softDeleteRetentionDays":
			if n, ok := v.(float64); ok && n > 0 {
				out.SoftDeleteRetentionDays = int(n)
			}
		}
	}
	return out
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok && s != "" {
		*dst = s
	}
}

func setBool(dst *bool, v any) {
	if b, ok := v.(bool); ok {
		*dst = b
	}
}
