package advisor

// The assistant always answers in Spanish; every fixed user-facing string
// below follows the same convention.

const systemInstruction = `Eres un Asesor Financiero Senior experto para una familia.
Tu tono es profesional, alentador y conciso.
Responde SIEMPRE en ESPAÑOL.
Tienes acceso a las transacciones recientes y metas de ahorro del usuario.

Si te preguntan sobre la "regla 50/30/20", explica cómo sus gastos actuales encajan en ese modelo.
Fijos/Necesidades (Needs): Renta/Hipoteca, Seguros, Servicios Públicos.
Deseos (Wants): Cenas fuera, Entretenimiento, Ocio.
Ahorros/Deuda (Savings): Inversiones, Fondo de Emergencia.

Proporciona consejos prácticos. Si el usuario pide categorización, sugiere categorías basadas en los nombres de los comercios.`

const categorizePromptFormat = `Categoriza esta descripción de transacción en una sola palabra en ESPAÑOL (ej. Supermercado, Servicios, Entretenimiento, Renta, Salario, Transporte): "%s"`

const (
	// MsgUnavailable is returned when no API credential is configured.
	// No network call is attempted in that case.
	MsgUnavailable = "El asesor financiero no está disponible: falta la credencial del servicio."

	// MsgEmptyResponse covers a successful call that produced no text.
	MsgEmptyResponse = "No pude generar una respuesta en este momento."

	// msgAllModelsFailedFormat wraps the last error once every model in the
	// fallback list has failed.
	msgAllModelsFailedFormat = "Tengo problemas para conectar con el cerebro financiero en este momento. Por favor, inténtalo más tarde. (%v)"

	// Uncategorized is the placeholder category when categorization fails.
	Uncategorized = "Sin Categoría"
)
