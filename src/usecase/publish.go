package usecase

import (
	"strings"
	"unicode/utf8"

	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/logger"
)

const maxTextLength = 500

// emit publishes a row change; marshal failures are logged and dropped
func emit(pub feed.Publisher, typ feed.EventType, table, owner string, record any) {
	if pub == nil {
		return
	}
	e, err := feed.NewEvent(typ, table, owner, record)
	if err != nil {
		logger.Log.WithError(err).WithField("table", table).Error("変更イベントの生成に失敗")
		return
	}
	pub.Publish(e)
}

// normalizeText trims text and rejects empty or oversized values
func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxTextLength {
		return "", ErrInvalidText
	}
	return text, nil
}

func parseDate(s string) (domain.Date, error) {
	d, err := domain.ParseDate(s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return d, nil
}
