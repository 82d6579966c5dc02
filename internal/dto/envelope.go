package dto

// Envelope is the success form of every API response.
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}
