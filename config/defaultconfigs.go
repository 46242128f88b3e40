package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		FullWidthLetters:         false,
		Colors: ConfigColors{
			WaterColor:        24,
			WaterColorAlt:     25,
			ShipColor:         250,
			HitColor:          196,
			MissColor:         153,
			LabelColor:        244,
			CursorColorFG:     232,
			CursorColorBG:     226,
			LastPlayedColorBG: 94,
		},
		Symbols: ConfigSymbols{
			Water:   '~',
			Ship:    '■',
			Hit:     '✖',
			Miss:    '•',
			Unknown: '·',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Player: PlayerConfig{
			Name:          "Player",
			Host:          "localhost",
			Port:          8888,
			Listen:        ":8888",
			MoveTimeout:   30,
			MatchDuration: 300,
		},
	}
}
