package dto

type BookingListDTO struct {
	ID           string `json:"id"`
	ClientID     string `json:"clientId"`
	ReaderID     string `json:"readerId"`
	ClientName   string `json:"clientName"`
	ReaderName   string `json:"readerName"`
	SelectedTime string `json:"selectedTime"`
	Status       string `json:"status"`
	RoomURL      string `json:"roomUrl,omitempty"`
}
