package value

// Цвета подсветки слота (RGB hex без '#').
const (
	ColorProfit  = "00ff00"
	ColorLoss    = "ff0000"
	ColorNeutral = "ffff00"
	ColorSold    = "aaaaaa"
	ColorBest    = "00ffff"
)

// Коды форматирования текста в описании.
const (
	Gray   = "§7"
	Green  = "§a"
	Red    = "§c"
	Gold   = "§6"
	Yellow = "§e"
	Aqua   = "§b"
	Bold   = "§l"
	Reset  = "§r"
)
