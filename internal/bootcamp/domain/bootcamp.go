package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Career string

const (
	CareerWebDevelopment    Career = "Web Development"
	CareerMobileDevelopment Career = "Mobile Development"
	CareerUIUX              Career = "UI/UX"
	CareerDataScience       Career = "Data Science"
	CareerBusiness          Career = "Business"
	CareerOther             Career = "Other"
)

var validCareers = map[Career]bool{
	CareerWebDevelopment:    true,
	CareerMobileDevelopment: true,
	CareerUIUX:              true,
	CareerDataScience:       true,
	CareerBusiness:          true,
	CareerOther:             true,
}

const DefaultPhoto = "no-photo.jpg"

// Location es el punto GeoJSON más la dirección normalizada por el geocoder.
type Location struct {
	Type             string    `json:"type"`
	Coordinates      []float64 `json:"coordinates"` // [lng, lat]
	FormattedAddress string    `json:"formattedAddress"`
	Street           string    `json:"street"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Zipcode          string    `json:"zipcode"`
	Country          string    `json:"country"`
}

type Bootcamp struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Careers       []Career  `json:"careers"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi"`
	UserID        uuid.UUID `json:"user"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BootcampInput son los campos editables por el dueño.
type BootcampInput struct {
	Name          string
	Description   string
	Website       string
	Phone         string
	Email         string
	Address       string
	Careers       []Career
	Housing       bool
	JobAssistance bool
	JobGuarantee  bool
	AcceptGi      bool
}

func NewBootcamp(in BootcampInput, owner uuid.UUID) (*Bootcamp, error) {
	b := &Bootcamp{
		ID:        uuid.New(),
		Photo:     DefaultPhoto,
		UserID:    owner,
		CreatedAt: time.Now().UTC(),
	}
	if err := b.Apply(in); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply copia los campos editables, recalcula el slug y valida.
func (b *Bootcamp) Apply(in BootcampInput) error {
	b.Name = strings.TrimSpace(in.Name)
	b.Slug = Slugify(b.Name)
	b.Description = in.Description
	b.Website = in.Website
	b.Phone = in.Phone
	b.Email = in.Email
	b.Careers = in.Careers
	b.Housing = in.Housing
	b.JobAssistance = in.JobAssistance
	b.JobGuarantee = in.JobGuarantee
	b.AcceptGi = in.AcceptGi
	return b.Validate()
}

func (b *Bootcamp) Validate() error {
	if b.Name == "" || len(b.Name) > 50 {
		return fmt.Errorf("%w: name is required and can not be more than 50 characters", ErrInvalidBootcamp)
	}
	if b.Description == "" || len(b.Description) > 500 {
		return fmt.Errorf("%w: description is required and can not be more than 500 characters", ErrInvalidBootcamp)
	}
	if len(b.Careers) == 0 {
		return fmt.Errorf("%w: at least one career is required", ErrInvalidBootcamp)
	}
	for _, c := range b.Careers {
		if !validCareers[c] {
			return fmt.Errorf("%w: %q", ErrInvalidCareer, c)
		}
	}
	return nil
}

// SetLocation guarda el resultado del geocoder como punto GeoJSON.
func (b *Bootcamp) SetLocation(g GeoResult) {
	b.Location = &Location{
		Type:             "Point",
		Coordinates:      []float64{g.Longitude, g.Latitude},
		FormattedAddress: g.FormattedAddress,
		Street:           g.Street,
		City:             g.City,
		State:            g.State,
		Zipcode:          g.Zipcode,
		Country:          g.Country,
	}
}

func (b *Bootcamp) PartitionKey() string {
	return b.ID.String()
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify pasa a minúsculas y sustituye todo lo que no sea alfanumérico por '-'.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// EarthRadiusMiles es el radio usado para convertir millas a radianes en $centerSphere.
const EarthRadiusMiles = 3963.2

// RadiusInRadians convierte una distancia en millas al radio angular de la búsqueda.
func RadiusInRadians(miles float64) float64 {
	return miles / EarthRadiusMiles
}

// AverageCost redondea la media de matrículas hacia arriba a la decena, como se publica en el listado.
func AverageCost(avgTuition float64) float64 {
	return math.Ceil(avgTuition/10) * 10
}
