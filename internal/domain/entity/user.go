package entity

import (
	"strings"
	"time"

	"github.com/whizkidefos/employee-management-api/pkg/textnorm"
)

// Puestos (jobRole) válidos para User y requisitos de Shift/Course.
const (
	JobRoleRegisteredNurse     = "Registered Nurse"
	JobRoleHealthcareAssistant = "Healthcare Assistant"
	JobRoleSupportWorker       = "Support Worker"
)

// JobRoles lista ordenada de puestos.
var JobRoles = []string{JobRoleRegisteredNurse, JobRoleHealthcareAssistant, JobRoleSupportWorker}

// IsValidJobRole indica si role pertenece al catálogo.
func IsValidJobRole(role string) bool {
	for _, r := range JobRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Nacionalidades admitidas en el alta.
const (
	NationalityUK    = "UK"
	NationalityEU    = "EU"
	NationalityOther = "Other"
)

type Address struct {
	Postcode string `json:"postcode" bson:"postcode"`
	Street   string `json:"street" bson:"street"`
	Country  string `json:"country" bson:"country"`
}

type EnhancedDBS struct {
	Has      bool   `json:"has" bson:"has"`
	Document string `json:"document,omitempty" bson:"document,omitempty"`
}

type Reference struct {
	Name     string `json:"name" bson:"name"`
	Position string `json:"position" bson:"position"`
	Company  string `json:"company" bson:"company"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
}

type WorkHistoryEntry struct {
	Employer    string     `json:"employer" bson:"employer"`
	Position    string     `json:"position" bson:"position"`
	StartDate   time.Time  `json:"startDate" bson:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

// TrainingRecord formación acreditada del usuario; los cursos completados en
// la plataforma se añaden aquí con CourseID.
type TrainingRecord struct {
	CourseID       string     `json:"courseId,omitempty" bson:"courseId,omitempty"`
	Name           string     `json:"name" bson:"name"`
	Passed         bool       `json:"passed" bson:"passed"`
	DatePassed     *time.Time `json:"datePassed,omitempty" bson:"datePassed,omitempty"`
	CertificateURL string     `json:"certificateUrl,omitempty" bson:"certificateUrl,omitempty"`
}

type BankDetails struct {
	SortCode      string `json:"sortCode" bson:"sortCode"`
	AccountNumber string `json:"accountNumber" bson:"accountNumber"`
	BankName      string `json:"bankName" bson:"bankName"`
}

type Signature struct {
	Content string     `json:"content" bson:"content"`
	Date    *time.Time `json:"date,omitempty" bson:"date,omitempty"`
}

// User identidad y perfil de cumplimiento de un profesional.
type User struct {
	ID                      string             `json:"id" bson:"_id"`
	FirstName               string             `json:"firstName" bson:"firstName"`
	LastName                string             `json:"lastName" bson:"lastName"`
	Email                   string             `json:"email" bson:"email"`
	PhoneNumber             string             `json:"phoneNumber" bson:"phoneNumber"`
	Username                string             `json:"username" bson:"username"`
	JobRole                 string             `json:"jobRole" bson:"jobRole"`
	PasswordHash            string             `json:"passwordHash" bson:"passwordHash"` // bcrypt; nunca sale de la capa de aplicación
	ProfilePhoto            string             `json:"profilePhoto,omitempty" bson:"profilePhoto,omitempty"`
	DateOfBirth             *time.Time         `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender                  string             `json:"gender,omitempty" bson:"gender,omitempty"`
	Address                 Address            `json:"address" bson:"address"`
	HasUnspentConvictions   bool               `json:"hasUnspentConvictions" bson:"hasUnspentConvictions"`
	NationalInsuranceNumber string             `json:"nationalInsuranceNumber" bson:"nationalInsuranceNumber"`
	EnhancedDBS             EnhancedDBS        `json:"enhancedDBS" bson:"enhancedDBS"`
	Nationality             string             `json:"nationality" bson:"nationality"`
	RightToWork             bool               `json:"rightToWork" bson:"rightToWork"`
	BRPNumber               string             `json:"brpNumber,omitempty" bson:"brpNumber,omitempty"`
	BRPDocument             string             `json:"brpDocument,omitempty" bson:"brpDocument,omitempty"`
	References              []Reference        `json:"references" bson:"references"`
	WorkHistory             []WorkHistoryEntry `json:"workHistory" bson:"workHistory"`
	Consent                 bool               `json:"consent" bson:"consent"`
	CVDocument              string             `json:"cvDocument,omitempty" bson:"cvDocument,omitempty"`
	Trainings               []TrainingRecord   `json:"trainings" bson:"trainings"`
	BankDetails             *BankDetails       `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	Signature               *Signature         `json:"signature,omitempty" bson:"signature,omitempty"`
	PreferredLocations      []string           `json:"preferredLocations" bson:"preferredLocations"`
	DeviceTokens            []string           `json:"deviceTokens" bson:"deviceTokens"`
	IsVerified              bool               `json:"isVerified" bson:"isVerified"`
	IsAdmin                 bool               `json:"isAdmin" bson:"isAdmin"`
	PasswordChangedAt       *time.Time         `json:"passwordChangedAt,omitempty" bson:"passwordChangedAt,omitempty"`
	Version                 int64              `json:"version" bson:"version"`
	CreatedAt               time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FullName nombre para mostrar en notificaciones y PDFs.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PrefersLocation compara ignorando mayúsculas y espacios.
func (u *User) PrefersLocation(location string) bool {
	key := textnorm.Key(location)
	for _, l := range u.PreferredLocations {
		if textnorm.Key(l) == key {
			return true
		}
	}
	return false
}

// AddDeviceToken añade el token si no existe; devuelve false si ya estaba.
func (u *User) AddDeviceToken(token string) bool {
	for _, t := range u.DeviceTokens {
		if t == token {
			return false
		}
	}
	u.DeviceTokens = append(u.DeviceTokens, token)
	return true
}

// RemoveDeviceTokens elimina los tokens indicados y devuelve cuántos quitó.
func (u *User) RemoveDeviceTokens(tokens ...string) int {
	drop := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		drop[t] = struct{}{}
	}
	kept := u.DeviceTokens[:0]
	removed := 0
	for _, t := range u.DeviceTokens {
		if _, ok := drop[t]; ok {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	u.DeviceTokens = kept
	return removed
}
