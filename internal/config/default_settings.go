package config

import "github.com/tauraamui/brawextract/pkg/configdef"

type defaultSettingKey uint

const (
	SDKLIBRARYPATH defaultSettingKey = 0x0
	BACKEND        defaultSettingKey = 0x1
	RESOURCEFORMAT defaultSettingKey = 0x2
	JPEGQUALITY    defaultSettingKey = 0x3
)

var defaultSettings = map[defaultSettingKey]interface{}{
	SDKLIBRARYPATH: "/usr/local/lib",
	BACKEND:        configdef.BackendNative,
	RESOURCEFORMAT: "rgba",
	JPEGQUALITY:    95,
}

func defaultValues() configdef.Values {
	return configdef.Values{
		SDKLibraryPath: defaultSettings[SDKLIBRARYPATH].(string),
		Backend:        defaultSettings[BACKEND].(string),
		ResourceFormat: defaultSettings[RESOURCEFORMAT].(string),
		JPEGQuality:    defaultSettings[JPEGQUALITY].(int),
	}
}
