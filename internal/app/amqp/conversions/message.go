package conversions

import "time"

const EventName = "linkconv/text.converted"

type ConvertedURL struct {
	Original  string `json:"original"`
	Clean     string `json:"clean"`
	Class     string `json:"class"`
	Affiliate string `json:"affiliate,omitempty"`
}

type TextConvertedEventData struct {
	URLCount    int            `json:"url_count"`
	Conversions []ConvertedURL `json:"conversions"`
}

type TextConvertedEnvelope struct {
	EventName string                 `json:"event_name"`
	EventID   string                 `json:"event_id"`
	TS        time.Time              `json:"ts"`
	Data      TextConvertedEventData `json:"data"`
}
