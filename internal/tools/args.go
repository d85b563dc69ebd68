package tools

import (
	"fmt"
	"strings"
)

// Argument coercion for decoded function-call payloads. JSON numbers arrive
// as float64; the model occasionally sends numerics as strings, which these
// helpers reject rather than guess about.

func argString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return strings.TrimSpace(s), nil
}

func argStringOpt(args map[string]any, key, fallback string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	if s = strings.TrimSpace(s); s == "" {
		return fallback, nil
	}
	return s, nil
}

func argFloat(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	return toFloat(key, v)
}

func argFloatOpt(args map[string]any, key string, fallback float64) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	return toFloat(key, v)
}

func argInt(args map[string]any, key string) (int, error) {
	f, err := argFloat(args, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func argIntOpt(args map[string]any, key string, fallback int) (int, error) {
	f, err := argFloatOpt(args, key, float64(fallback))
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func argFloatList(args map[string]any, key string) ([]float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("missing required argument %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a list of numbers, got %T", key, v)
	}
	out := make([]float64, 0, len(raw))
	for i, item := range raw {
		f, err := toFloat(fmt.Sprintf("%s[%d]", key, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func argDictList(args map[string]any, key string) ([]map[string]any, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("missing required argument %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a list of objects, got %T", key, v)
	}
	out := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("argument %s[%d] must be an object, got %T", key, i, item)
		}
		out = append(out, m)
	}
	return out, nil
}

func toFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("argument %q must be a number, got %T", key, v)
}
