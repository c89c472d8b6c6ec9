package models

// PlatformType канал, через который пользователь взаимодействует с системой
type PlatformType string

const (
	PlatformWhatsApp PlatformType = "whatsapp"
	PlatformTelegram PlatformType = "telegram"
	PlatformSMS      PlatformType = "sms"
	PlatformWeb      PlatformType = "web"
)

func (p PlatformType) Valid() bool {
	switch p {
	case PlatformWhatsApp, PlatformTelegram, PlatformSMS, PlatformWeb:
		return true
	}
	return false
}

// SeverityLevel уровень серьезности подтопления
type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "low"
	SeverityMedium   SeverityLevel = "medium"
	SeverityHigh     SeverityLevel = "high"
	SeverityCritical SeverityLevel = "critical"
)

// Rank возвращает порядковый номер уровня (1-4), 0 для неизвестного значения
func (s SeverityLevel) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

func (s SeverityLevel) Valid() bool {
	return s.Rank() > 0
}

// MaxSeverity возвращает наиболее серьезный из переданных уровней
func MaxSeverity(levels ...SeverityLevel) SeverityLevel {
	var result SeverityLevel
	for _, l := range levels {
		if l.Rank() > result.Rank() {
			result = l
		}
	}
	return result
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
	VerificationFlagged  VerificationStatus = "flagged"
)

func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected, VerificationFlagged:
		return true
	}
	return false
}

type IncidentStatus string

const (
	IncidentActive     IncidentStatus = "active"
	IncidentMonitoring IncidentStatus = "monitoring"
	IncidentResolved   IncidentStatus = "resolved"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentActive, IncidentMonitoring, IncidentResolved:
		return true
	}
	return false
}

// AlertLevel уровень оповещения
type AlertLevel string

const (
	AlertAdvisory  AlertLevel = "advisory"
	AlertWatch     AlertLevel = "watch"
	AlertWarning   AlertLevel = "warning"
	AlertEmergency AlertLevel = "emergency"
)

func (l AlertLevel) Valid() bool {
	switch l {
	case AlertAdvisory, AlertWatch, AlertWarning, AlertEmergency:
		return true
	}
	return false
}

// AlertLevelForSeverity сопоставляет серьезность инцидента уровню оповещения
func AlertLevelForSeverity(s SeverityLevel) AlertLevel {
	switch s {
	case SeverityLow:
		return AlertAdvisory
	case SeverityMedium:
		return AlertWatch
	case SeverityHigh:
		return AlertWarning
	case SeverityCritical:
		return AlertEmergency
	}
	return AlertWarning
}

type AlertDeliveryStatus string

const (
	DeliveryPending AlertDeliveryStatus = "pending"
	DeliverySending AlertDeliveryStatus = "sending"
	DeliverySent    AlertDeliveryStatus = "sent"
	DeliveryFailed  AlertDeliveryStatus = "failed"
)

type VerificationType string

const (
	VerificationTypeAI        VerificationType = "ai"
	VerificationTypeCommunity VerificationType = "community"
	VerificationTypeAdmin     VerificationType = "admin"
	VerificationTypeWeather   VerificationType = "weather"
	VerificationTypeDuplicate VerificationType = "duplicate"
)

type VerificationResult string

const (
	ResultConfirmed VerificationResult = "confirmed"
	ResultRejected  VerificationResult = "rejected"
	ResultUncertain VerificationResult = "uncertain"
)

// AdminRole роль сотрудника в панели управления
type AdminRole string

const (
	RoleAdmin     AdminRole = "admin"
	RoleResponder AdminRole = "responder"
	RoleAnalyst   AdminRole = "analyst"
	RoleViewer    AdminRole = "viewer"
)

func (r AdminRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleResponder, RoleAnalyst, RoleViewer:
		return true
	}
	return false
}

type MessageType string

const (
	MessageCommand  MessageType = "command"
	MessageText     MessageType = "text"
	MessageLocation MessageType = "location"
	MessageMedia    MessageType = "media"
	MessageButton   MessageType = "button"
)

// LocationSource источник, из которого получены координаты
type LocationSource string

const (
	SourceGPS    LocationSource = "gps"
	SourceIP     LocationSource = "ip"
	SourceManual LocationSource = "manual"
)
