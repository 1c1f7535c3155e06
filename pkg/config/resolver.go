package config

import (
	"github.com/tauraamui/brawextract/internal/config"
	"github.com/tauraamui/brawextract/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
