package entity

import "strings"

// Theme — текущий заголовок доски. Логически ровно одна запись,
// перезаписывается целиком, истории нет.
type Theme struct {
	mainTheme string
	subTitle  string
}

func NewTheme(mainTheme, subTitle string) *Theme {
	return &Theme{
		mainTheme: strings.TrimSpace(mainTheme),
		subTitle:  strings.TrimSpace(subTitle),
	}
}

// DefaultTheme возвращает тему-заглушку для доски без настроек.
// Отсутствие строки настроек не считается ошибкой.
func DefaultTheme(mainTheme, subTitle string) *Theme {
	if mainTheme == "" {
		mainTheme = "Untitled"
	}
	if subTitle == "" {
		subTitle = "..."
	}
	return &Theme{mainTheme: mainTheme, subTitle: subTitle}
}

func (t *Theme) MainTheme() string { return t.mainTheme }
func (t *Theme) SubTitle() string  { return t.subTitle }

func (t *Theme) IsEmpty() bool {
	return t.mainTheme == "" && t.subTitle == ""
}
