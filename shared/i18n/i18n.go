// Package i18n localizes user-facing response messages. English is the
// source language; keys are the English texts themselves.
package i18n

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgRegistered         = "User registered successfully!"
	MsgEmailInUse         = "This email address is already in use."
	MsgInvalidCredentials = "Unable to log in with provided credentials."
	MsgInvalidData        = "Invalid data provided."
	MsgRequestsSent       = "Requests sent to %d selected customers."
	MsgAuthRequired       = "Authentication credentials were not provided."
	MsgInvalidToken       = "Invalid token."
	MsgInvalidBody        = "Invalid request body"
	MsgValidationFailed   = "Invalid request data"
	MsgInternalError      = "Internal server error"
)

var supported = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(supported)

var turkish = map[string]string{
	MsgRegistered:         "Kullanıcı başarıyla kaydedildi!",
	MsgEmailInUse:         "Bu e-posta adresi zaten kullanımda.",
	MsgInvalidCredentials: "Verilen bilgilerle giriş yapılamıyor.",
	MsgInvalidData:        "Geçersiz veri sağlandı.",
	MsgRequestsSent:       "Seçilen %d müşteriye istek gönderildi.",
	MsgAuthRequired:       "Kimlik doğrulama bilgileri sağlanmadı.",
	MsgInvalidToken:       "Geçersiz token.",
	MsgInvalidBody:        "Geçersiz istek gövdesi",
	MsgValidationFailed:   "Geçersiz istek verisi",
	MsgInternalError:      "Sunucu hatası",
}

func init() {
	for key, text := range turkish {
		if err := message.SetString(language.Turkish, key, text); err != nil {
			panic(err)
		}
	}
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// Sprintf renders key in the given language.
func Sprintf(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag).Sprintf(message.Key(key, key), args...)
}

// T renders key in the language requested by the client.
func T(c *gin.Context, key string, args ...any) string {
	return Sprintf(Match(c.GetHeader("Accept-Language")), key, args...)
}
