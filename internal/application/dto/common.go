package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error HTTP. Message es siempre genérico; el
// detalle queda en los logs del servidor.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse cuerpo mínimo de éxito.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ── Coerción parse-o-default ──────────────────────────────────────────────────
//
// Los montos y cantidades llegan de clientes que mandan número, string
// numérico o basura. La política es coaccionar en la frontera de entrada:
// un valor ausente o inválido toma su default documentado en lugar de
// rechazar la petición.

// LooseDecimal es un decimal que nunca falla al deserializar: acepta número
// JSON o string numérico; cualquier otra cosa vale 0.
type LooseDecimal struct {
	val decimal.Decimal
}

// NewLooseDecimal construye un LooseDecimal (útil en tests).
func NewLooseDecimal(d decimal.Decimal) LooseDecimal {
	return LooseDecimal{val: d}
}

// UnmarshalJSON nunca retorna error: el default de un valor inválido es 0.
func (d *LooseDecimal) UnmarshalJSON(b []byte) error {
	var v decimal.Decimal
	if err := v.UnmarshalJSON(b); err != nil {
		d.val = decimal.Zero
		return nil
	}
	d.val = v
	return nil
}

// MarshalJSON delega en el decimal interno.
func (d LooseDecimal) MarshalJSON() ([]byte, error) {
	return d.val.MarshalJSON()
}

// Decimal devuelve el valor coaccionado (0 si fue ausente o inválido).
func (d LooseDecimal) Decimal() decimal.Decimal {
	return d.val
}

// NonNegative devuelve el valor, con los negativos coaccionados a 0.
func (d LooseDecimal) NonNegative() decimal.Decimal {
	if d.val.IsNegative() {
		return decimal.Zero
	}
	return d.val
}

// LooseQuantity es una cantidad entera no negativa. Ausente, inválida o
// negativa vale 1.
type LooseQuantity struct {
	n   int
	set bool
}

// NewLooseQuantity construye una LooseQuantity (útil en tests).
func NewLooseQuantity(n int) LooseQuantity {
	return LooseQuantity{n: n, set: true}
}

// UnmarshalJSON nunca retorna error: acepta número entero o string
// numérico; lo demás queda marcado como no asignado y Value() aplicará el
// default.
func (q *LooseQuantity) UnmarshalJSON(b []byte) error {
	q.set = false
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		m, convErr := strconv.Atoi(strings.TrimSpace(s))
		if convErr != nil {
			return nil
		}
		n = m
	}
	if n < 0 {
		return nil
	}
	q.n = n
	q.set = true
	return nil
}

// MarshalJSON serializa la cantidad efectiva.
func (q LooseQuantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Value())
}

// Value devuelve la cantidad, 1 si el campo estuvo ausente o fue inválido.
func (q LooseQuantity) Value() int {
	if !q.set {
		return 1
	}
	return q.n
}
