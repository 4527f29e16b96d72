package mongodb

import (
	"time"

	"github.com/google/uuid"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
)

const (
	BootcampsCollection = "bootcamps"
	CoursesCollection   = "courses"
	ReviewsCollection   = "reviews"
)

// Structs BSON locales: el dominio no lleva tags de Mongo.
// Los ids se guardan como string para que $lookup y los filtros del query string coincidan.

type mongoLocation struct {
	Type             string    `bson:"type"`
	Coordinates      []float64 `bson:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty"`
	City             string    `bson:"city,omitempty"`
	State            string    `bson:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty"`
}

type mongoBootcamp struct {
	ID            string         `bson:"_id"`
	Name          string         `bson:"name"`
	Slug          string         `bson:"slug"`
	Description   string         `bson:"description"`
	Website       string         `bson:"website,omitempty"`
	Phone         string         `bson:"phone,omitempty"`
	Email         string         `bson:"email,omitempty"`
	Location      *mongoLocation `bson:"location,omitempty"`
	Careers       []string       `bson:"careers"`
	AverageRating *float64       `bson:"averageRating,omitempty"`
	AverageCost   *float64       `bson:"averageCost,omitempty"`
	Photo         string         `bson:"photo"`
	Housing       bool           `bson:"housing"`
	JobAssistance bool           `bson:"jobAssistance"`
	JobGuarantee  bool           `bson:"jobGuarantee"`
	AcceptGi      bool           `bson:"acceptGi"`
	User          string         `bson:"user"`
	CreatedAt     time.Time      `bson:"createdAt"`
}

type mongoCourse struct {
	ID                   string    `bson:"_id"`
	Title                string    `bson:"title"`
	Description          string    `bson:"description"`
	Weeks                string    `bson:"weeks"`
	Tuition              float64   `bson:"tuition"`
	MinimumSkill         string    `bson:"minimumSkill"`
	ScholarshipAvailable bool      `bson:"scholarshipAvailable"`
	Bootcamp             string    `bson:"bootcamp"`
	User                 string    `bson:"user"`
	CreatedAt            time.Time `bson:"createdAt"`
}

type mongoReview struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Text      string    `bson:"text"`
	Rating    int       `bson:"rating"`
	Bootcamp  string    `bson:"bootcamp"`
	User      string    `bson:"user"`
	CreatedAt time.Time `bson:"createdAt"`
}

// --- Helpers de mapeo ---

func toMongoBootcamp(b *bootcampDomain.Bootcamp) *mongoBootcamp {
	mb := &mongoBootcamp{
		ID: b.ID.String(), Name: b.Name, Slug: b.Slug, Description: b.Description,
		Website: b.Website, Phone: b.Phone, Email: b.Email,
		AverageRating: b.AverageRating, AverageCost: b.AverageCost, Photo: b.Photo,
		Housing: b.Housing, JobAssistance: b.JobAssistance, JobGuarantee: b.JobGuarantee, AcceptGi: b.AcceptGi,
		User: b.UserID.String(), CreatedAt: b.CreatedAt,
	}
	for _, c := range b.Careers {
		mb.Careers = append(mb.Careers, string(c))
	}
	if l := b.Location; l != nil {
		mb.Location = &mongoLocation{
			Type: l.Type, Coordinates: l.Coordinates, FormattedAddress: l.FormattedAddress,
			Street: l.Street, City: l.City, State: l.State, Zipcode: l.Zipcode, Country: l.Country,
		}
	}
	return mb
}

func fromMongoBootcamp(mb *mongoBootcamp) *bootcampDomain.Bootcamp {
	b := &bootcampDomain.Bootcamp{
		ID: parseID(mb.ID), Name: mb.Name, Slug: mb.Slug, Description: mb.Description,
		Website: mb.Website, Phone: mb.Phone, Email: mb.Email,
		AverageRating: mb.AverageRating, AverageCost: mb.AverageCost, Photo: mb.Photo,
		Housing: mb.Housing, JobAssistance: mb.JobAssistance, JobGuarantee: mb.JobGuarantee, AcceptGi: mb.AcceptGi,
		UserID: parseID(mb.User), CreatedAt: mb.CreatedAt,
	}
	for _, c := range mb.Careers {
		b.Careers = append(b.Careers, bootcampDomain.Career(c))
	}
	if l := mb.Location; l != nil {
		b.Location = &bootcampDomain.Location{
			Type: l.Type, Coordinates: l.Coordinates, FormattedAddress: l.FormattedAddress,
			Street: l.Street, City: l.City, State: l.State, Zipcode: l.Zipcode, Country: l.Country,
		}
	}
	return b
}

func toMongoCourse(c *bootcampDomain.Course) *mongoCourse {
	return &mongoCourse{
		ID: c.ID.String(), Title: c.Title, Description: c.Description, Weeks: c.Weeks,
		Tuition: c.Tuition, MinimumSkill: string(c.MinimumSkill), ScholarshipAvailable: c.ScholarshipAvailable,
		Bootcamp: c.BootcampID.String(), User: c.UserID.String(), CreatedAt: c.CreatedAt,
	}
}

func fromMongoCourse(mc *mongoCourse) *bootcampDomain.Course {
	return &bootcampDomain.Course{
		ID: parseID(mc.ID), Title: mc.Title, Description: mc.Description, Weeks: mc.Weeks,
		Tuition: mc.Tuition, MinimumSkill: bootcampDomain.Skill(mc.MinimumSkill), ScholarshipAvailable: mc.ScholarshipAvailable,
		BootcampID: parseID(mc.Bootcamp), UserID: parseID(mc.User), CreatedAt: mc.CreatedAt,
	}
}

func toMongoReview(r *bootcampDomain.Review) *mongoReview {
	return &mongoReview{
		ID: r.ID.String(), Title: r.Title, Text: r.Text, Rating: r.Rating,
		Bootcamp: r.BootcampID.String(), User: r.UserID.String(), CreatedAt: r.CreatedAt,
	}
}

func fromMongoReview(mr *mongoReview) *bootcampDomain.Review {
	return &bootcampDomain.Review{
		ID: parseID(mr.ID), Title: mr.Title, Text: mr.Text, Rating: mr.Rating,
		BootcampID: parseID(mr.Bootcamp), UserID: parseID(mr.User), CreatedAt: mr.CreatedAt,
	}
}

// parseID tolera ids mal formados (datos importados a mano) devolviendo uuid.Nil.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
