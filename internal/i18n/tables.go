package i18n

var tables = map[string]map[string]string{
	"en": {
		"dashboard": "Dashboard",
		"itinerary": "Itinerary",
		"identity":  "Identity",
		"settings":  "Settings",

		"identityVerificationStatus": "Identity Verification Status",
		"documentType":               "Document Type",
		"documentNumber":             "Document Number",
		"yourDigitalTravelIds":       "Your Digital Travel IDs",
		"createDigitalTravelId":      "Create Digital Travel ID",
		"noTripsAvailable":           "No Trips Available",
		"createTrip":                 "Create a Trip",
		"verificationProgress":       "Verification Progress",
		"verificationComplete":       "Verification complete",
		"viewQrCode":                 "View QR Code",

		"account":             "Account",
		"preferredLanguage":   "Preferred Language",
		"pushNotifications":   "Push Notifications",
		"locationSharing":     "Location Sharing",
		"emergencyContacts":   "Emergency Contacts",
		"addEmergencyContact": "Add Emergency Contact",
		"name":                "Name",
		"phone":               "Phone",
		"relationship":        "Relationship",
		"logout":              "Logout",

		"verified": "VERIFIED",
		"pending":  "PENDING",
		"rejected": "REJECTED",
	},
	"es": {
		"dashboard": "Panel",
		"itinerary": "Itinerario",
		"identity":  "Identidad",
		"settings":  "Configuración",

		"identityVerificationStatus": "Estado de Verificación de Identidad",
		"documentType":               "Tipo de Documento",
		"documentNumber":             "Número de Documento",
		"yourDigitalTravelIds":       "Sus IDs de Viaje Digitales",
		"createDigitalTravelId":      "Crear ID de Viaje Digital",
		"noTripsAvailable":           "No Hay Viajes Disponibles",
		"createTrip":                 "Crear un Viaje",
		"verificationProgress":       "Progreso de Verificación",
		"verificationComplete":       "Verificación completa",
		"viewQrCode":                 "Ver Código QR",

		"account":             "Cuenta",
		"preferredLanguage":   "Idioma Preferido",
		"pushNotifications":   "Notificaciones Push",
		"locationSharing":     "Compartir Ubicación",
		"emergencyContacts":   "Contactos de Emergencia",
		"addEmergencyContact": "Agregar Contacto de Emergencia",
		"name":                "Nombre",
		"phone":               "Teléfono",
		"relationship":        "Relación",
		"logout":              "Cerrar Sesión",

		"verified": "VERIFICADO",
		"pending":  "PENDIENTE",
		"rejected": "RECHAZADO",
	},
	"fr": {
		"dashboard": "Tableau de Bord",
		"itinerary": "Itinéraire",
		"identity":  "Identité",
		"settings":  "Paramètres",

		"identityVerificationStatus": "Statut de Vérification d'Identité",
		"documentType":               "Type de Document",
		"documentNumber":             "Numéro de Document",
		"yourDigitalTravelIds":       "Vos IDs de Voyage Numériques",
		"createDigitalTravelId":      "Créer un ID de Voyage Numérique",
		"noTripsAvailable":           "Aucun Voyage Disponible",
		"createTrip":                 "Créer un Voyage",
		"verificationProgress":       "Progrès de Vérification",
		"verificationComplete":       "Vérification terminée",
		"viewQrCode":                 "Voir le Code QR",

		"account":             "Compte",
		"preferredLanguage":   "Langue Préférée",
		"pushNotifications":   "Notifications Push",
		"locationSharing":     "Partage de Localisation",
		"emergencyContacts":   "Contacts d'Urgence",
		"addEmergencyContact": "Ajouter un Contact d'Urgence",
		"name":                "Nom",
		"phone":               "Téléphone",
		"relationship":        "Relation",
		"logout":              "Déconnexion",

		"verified": "VÉRIFIÉ",
		"pending":  "EN ATTENTE",
		"rejected": "REJETÉ",
	},
	"de": {
		"dashboard": "Dashboard",
		"itinerary": "Reiseplan",
		"identity":  "Identität",
		"settings":  "Einstellungen",

		"identityVerificationStatus": "Identitätsverifizierungsstatus",
		"documentType":               "Dokumenttyp",
		"documentNumber":             "Dokumentnummer",
		"yourDigitalTravelIds":       "Ihre Digitalen Reise-IDs",
		"createDigitalTravelId":      "Digitale Reise-ID Erstellen",
		"noTripsAvailable":           "Keine Reisen Verfügbar",
		"createTrip":                 "Eine Reise Erstellen",
		"verificationProgress":       "Verifizierungsfortschritt",
		"verificationComplete":       "Verifizierung abgeschlossen",
		"viewQrCode":                 "QR-Code Anzeigen",

		"account":             "Konto",
		"preferredLanguage":   "Bevorzugte Sprache",
		"pushNotifications":   "Push-Benachrichtigungen",
		"locationSharing":     "Standort Teilen",
		"emergencyContacts":   "Notfallkontakte",
		"addEmergencyContact": "Notfallkontakt Hinzufügen",
		"name":                "Name",
		"phone":               "Telefon",
		"relationship":        "Beziehung",
		"logout":              "Abmelden",

		"verified": "VERIFIZIERT",
		"pending":  "AUSSTEHEND",
		"rejected": "ABGELEHNT",
	},
	"hi": {
		"dashboard": "डैशबोर्ड",
		"itinerary": "यात्रा कार्यक्रम",
		"identity":  "पहचान",
		"settings":  "सेटिंग्स",

		"identityVerificationStatus": "पहचान सत्यापन स्थिति",
		"documentType":               "दस्तावेज़ प्रकार",
		"documentNumber":             "दस्तावेज़ संख्या",
		"yourDigitalTravelIds":       "आपकी डिजिटल यात्रा आईडी",
		"createDigitalTravelId":      "डिजिटल यात्रा आईडी बनाएं",
		"noTripsAvailable":           "कोई यात्रा उपलब्ध नहीं",
		"createTrip":                 "एक यात्रा बनाएं",
		"verificationProgress":       "सत्यापन प्रगति",
		"verificationComplete":       "सत्यापन पूर्ण",
		"viewQrCode":                 "QR कोड देखें",

		"account":             "खाता",
		"preferredLanguage":   "पसंदीदा भाषा",
		"pushNotifications":   "पुश सूचनाएं",
		"locationSharing":     "स्थान साझाकरण",
		"emergencyContacts":   "आपातकालीन संपर्क",
		"addEmergencyContact": "आपातकालीन संपर्क जोड़ें",
		"name":                "नाम",
		"phone":               "फोन",
		"relationship":        "रिश्ता",
		"logout":              "लॉग आउट",

		"verified": "सत्यापित",
		"pending":  "लंबित",
		"rejected": "अस्वीकृत",
	},
}
