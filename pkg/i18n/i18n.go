// Package i18n resuelve los mensajes de error de la API en árabe e inglés.
// El árabe es el idioma por defecto; la negociación se hace contra el
// header Accept-Language usando golang.org/x/text.
package i18n

import (
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.Arabic, // por defecto
	language.English,
}

var matcher = language.NewMatcher(supported)

// Códigos de error expuestos por la API. Cada respuesta de error lleva
// el código estable más el mensaje localizado.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION"
	CodeDuplicate         = "DUPLICATE"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeSameStatus        = "SAME_STATUS"
	CodeLotClosed         = "LOT_CLOSED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

var messages = map[string]map[string]string{
	"ar": {
		CodeNotFound:          "السجل المطلوب غير موجود",
		CodeValidation:        "البيانات المدخلة غير صالحة",
		CodeDuplicate:         "السجل موجود مسبقاً",
		CodeConflict:          "تعذر تنفيذ العملية بسبب تعارض في الحالة",
		CodeInsufficientStock: "الكمية المتاحة غير كافية",
		CodeSameStatus:        "الحالة الجديدة مطابقة للحالة الحالية",
		CodeLotClosed:         "الدفعة مغلقة ولا تقبل حركات جديدة",
		CodeUnauthorized:      "يجب تسجيل الدخول للوصول إلى هذا المورد",
		CodeForbidden:         "ليست لديك صلاحية الوصول إلى هذا المورد",
		CodeInternal:          "حدث خطأ داخلي، حاول مرة أخرى لاحقاً",
	},
	"en": {
		CodeNotFound:          "the requested record was not found",
		CodeValidation:        "the provided data is invalid",
		CodeDuplicate:         "the record already exists",
		CodeConflict:          "the operation conflicts with the current state",
		CodeInsufficientStock: "available quantity is insufficient",
		CodeSameStatus:        "the new status equals the current status",
		CodeLotClosed:         "the lot is closed and accepts no further movements",
		CodeUnauthorized:      "authentication is required to access this resource",
		CodeForbidden:         "you do not have access to this resource",
		CodeInternal:          "an internal error occurred, try again later",
	},
}

// Resolve negocia el idioma contra Accept-Language y devuelve "ar" o "en".
// Cualquier header vacío o no soportado cae al árabe.
func Resolve(acceptLanguage string) string {
	if acceptLanguage == "" {
		return "ar"
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "ar"
	}
	_, idx, _ := matcher.Match(tags...)
	if supported[idx] == language.English {
		return "en"
	}
	return "ar"
}

// Message devuelve el mensaje localizado para un código. Código desconocido
// devuelve el mensaje de error interno.
func Message(lang, code string) string {
	m, ok := messages[lang]
	if !ok {
		m = messages["ar"]
	}
	if msg, ok := m[code]; ok {
		return msg
	}
	return m[CodeInternal]
}
