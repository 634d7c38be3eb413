package sale

import (
	"fmt"
	"time"
)

// DayPrefix arma el espacio de numeración del día: prefijo + fecha de 8
// dígitos (ej: "POS20260831"). El consecutivo de ventas se reinicia por día
// dentro de ese prefijo.
func DayPrefix(prefix string, day time.Time) string {
	return prefix + day.Format("20060102")
}

// FormatOrderNumber arma el número de orden: prefijo diario + "-" +
// consecutivo con ceros a la izquierda (ej: "POS20260831-0007").
// seq es posición 1-based dentro del día.
func FormatOrderNumber(dayPrefix string, seq int64, digits int) string {
	if digits <= 0 {
		digits = 4
	}
	return fmt.Sprintf("%s-%0*d", dayPrefix, digits, seq)
}
