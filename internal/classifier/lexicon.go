
package classifier

import "strings"

// Sector lexicons cover Spanish and English vocabulary. A sector is
// assigned when its terms dominate the page text.
var sectorLexicons = map[string][]string{
	"legal": {
		"abogado", "abogados", "jurídico", "juridico", "legal", "derecho",
		"demanda", "contrato", "notario", "lawyer", "attorney", "law firm",
		"litigation", "legislación", "legislacion",
	},
	"medical": {
		"salud", "médico", "medico", "clínica", "clinica", "hospital",
		"tratamiento", "paciente", "síntomas", "sintomas", "doctor",
		"health", "medical", "treatment", "patient", "therapy", "farmacia",
	},
	"technology": {
		"software", "tecnología", "tecnologia", "desarrollo", "aplicación",
		"aplicacion", "cloud", "api", "datos", "digital", "technology",
		"developer", "programming", "saas", "ciberseguridad", "cybersecurity",
	},
	"education": {
		"curso", "cursos", "formación", "formacion", "universidad", "escuela",
		"estudiante", "aprender", "education", "course", "learning", "student",
		"academy", "máster", "master", "diploma",
	},
	"finance": {
		"banco", "inversión", "inversion", "crédito", "credito", "hipoteca",
		"seguro", "finanzas", "ahorro", "finance", "investment", "banking",
		"insurance", "loan", "trading", "criptomoneda", "cryptocurrency",
	},
	"real_estate": {
		"inmobiliaria", "piso", "vivienda", "alquiler", "venta de casas",
		"propiedad", "real estate", "property", "apartment", "rent",
		"mortgage", "inmueble", "terreno",
	},
	"sports": {
		"deporte", "deportes", "fútbol", "futbol", "entrenamiento", "fitness",
		"gimnasio", "liga", "equipo", "sports", "training", "gym", "match",
		"running", "ciclismo",
	},
	"food": {
		"receta", "recetas", "restaurante", "cocina", "comida", "menú",
		"menu", "ingredientes", "food", "recipe", "restaurant", "cooking",
		"gastronomía", "gastronomia", "delivery",
	},
	"travel": {
		"viaje", "viajes", "hotel", "vuelo", "vuelos", "turismo", "destino",
		"travel", "flight", "tourism", "vacation", "booking", "excursión",
		"excursion", "playa",
	},
	"automotive": {
		"coche", "coches", "vehículo", "vehiculo", "motor", "concesionario",
		"taller", "car", "cars", "vehicle", "automotive", "dealer",
		"neumático", "neumatico", "suv",
	},
}

// Audience lexicons tag who the page talks to. More than one tag can
// apply; "general" is the fallback.
var audienceLexicons = map[string][]string{
	"b2b": {
		"empresas", "empresa", "negocios", "corporativo", "mayorista",
		"b2b", "business", "enterprise", "corporate", "wholesale",
		"distribuidor", "partners", "proveedores",
	},
	"b2c": {
		"particulares", "consumidor", "clientes", "hogar", "familia",
		"b2c", "consumer", "personal", "tu casa", "para ti",
	},
	"profesionales": {
		"profesionales", "especialistas", "técnicos", "tecnicos",
		"professionals", "experts", "developers", "médicos", "medicos",
		"abogados", "arquitectos",
	},
}

// Intent markers, grouped by funnel stage.
var intentLexicons = map[string][]string{
	"commercial": {
		"comprar", "compra", "precio", "precios", "oferta", "ofertas",
		"descuento", "envío gratis", "envio gratis", "añadir al carrito",
		"buy", "price", "discount", "order now", "add to cart", "checkout",
		"contratar", "presupuesto",
	},
	"consideration": {
		"comparar", "comparativa", "mejor", "mejores", "opiniones",
		"review", "reviews", "versus", " vs ", "alternativas", "ranking",
		"top 10", "ventajas", "pros y contras", "best",
	},
	"informational": {
		"qué es", "que es", "cómo", "como funciona", "guía", "guia",
		"tutorial", "aprende", "consejos", "definición", "definicion",
		"what is", "how to", "guide", "tips", "faq", "preguntas frecuentes",
	},
}

// countMatches tallies how many lexicon terms appear in the text. The
// text must already be lowercased; multi-word terms match as phrases.
func countMatches(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}
