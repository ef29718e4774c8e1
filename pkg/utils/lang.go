package utils

import (
	"github.com/abadojack/whatlanggo"
)

var whatLangOpts = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Cmn: true,
		whatlanggo.Fra: true,
		whatlanggo.Deu: true,
		whatlanggo.Spa: true,
		whatlanggo.Jpn: true,
	},
}

// WhatLang guesses the language of transcript text when the upload did not
// declare one.
func WhatLang(text string) string {
	info := whatlanggo.DetectWithOptions(text, whatLangOpts)
	return info.Lang.String()
}
