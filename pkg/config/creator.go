package config

import (
	"github.com/tauraamui/brawextract/internal/config"
	"github.com/tauraamui/brawextract/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
