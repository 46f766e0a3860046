package entity

// Sequence es el contador de numeración de un tipo de documento.
// Solo lo modifica el generador de secuencias bajo bloqueo de fila; nunca decrece.
type Sequence struct {
	DocumentType string
	NextNumber   int64
	Prefix       string
}
