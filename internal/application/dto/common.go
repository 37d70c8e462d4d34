package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta con solo un mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// NotesRequest body opcional de las transiciones de estado.
type NotesRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}
