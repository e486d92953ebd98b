package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.HandleFunc("POST /score", handler.HandleScore)
	mux.HandleFunc("POST /poems", handler.HandleSubmit)
	mux.HandleFunc("GET /poems/top", handler.HandleTop)
	mux.HandleFunc("GET /schema", handler.HandleSchema)
}
