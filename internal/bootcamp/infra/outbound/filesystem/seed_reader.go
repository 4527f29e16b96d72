package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
)

// SeedFiles son los ficheros JSON que lee el seeder dentro de su directorio de datos.
const (
	BootcampsFile = "bootcamps.json"
	CoursesFile   = "courses.json"
	ReviewsFile   = "reviews.json"
	UsersFile     = "users.json"
)

// SeedReader lee los datos de ejemplo desde un directorio (por defecto _data).
type SeedReader struct {
	dir string
}

func NewSeedReader(dir string) *SeedReader {
	return &SeedReader{dir: dir}
}

type seedBootcamp struct {
	ID            uuid.UUID                `json:"id"`
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Website       string                   `json:"website"`
	Phone         string                   `json:"phone"`
	Email         string                   `json:"email"`
	Address       string                   `json:"address"`
	Location      *bootcampDomain.Location `json:"location"`
	Careers       []bootcampDomain.Career  `json:"careers"`
	Housing       bool                     `json:"housing"`
	JobAssistance bool                     `json:"jobAssistance"`
	JobGuarantee  bool                     `json:"jobGuarantee"`
	AcceptGi      bool                     `json:"acceptGi"`
	User          uuid.UUID                `json:"user"`
}

// SeedUser es la forma del fichero de usuarios; la contraseña viene en claro y la hashea el seeder.
type SeedUser struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Password string    `json:"password"`
}

// Bootcamps devuelve los bootcamps validados. Las direcciones sin location se quedan para el geocoder.
func (r *SeedReader) Bootcamps() ([]*bootcampDomain.Bootcamp, []string, error) {
	var raw []seedBootcamp
	if err := r.read(BootcampsFile, &raw); err != nil {
		return nil, nil, err
	}

	out := make([]*bootcampDomain.Bootcamp, 0, len(raw))
	addresses := make([]string, 0, len(raw))
	for _, sb := range raw {
		b, err := bootcampDomain.NewBootcamp(bootcampDomain.BootcampInput{
			Name: sb.Name, Description: sb.Description, Website: sb.Website, Phone: sb.Phone,
			Email: sb.Email, Address: sb.Address, Careers: sb.Careers,
			Housing: sb.Housing, JobAssistance: sb.JobAssistance, JobGuarantee: sb.JobGuarantee, AcceptGi: sb.AcceptGi,
		}, sb.User)
		if err != nil {
			return nil, nil, fmt.Errorf("bootcamp %q: %w", sb.Name, err)
		}
		if sb.ID != uuid.Nil {
			b.ID = sb.ID
		}
		b.Location = sb.Location
		out = append(out, b)
		addresses = append(addresses, sb.Address)
	}
	return out, addresses, nil
}

type seedCourse struct {
	ID                   uuid.UUID            `json:"id"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Weeks                string               `json:"weeks"`
	Tuition              float64              `json:"tuition"`
	MinimumSkill         bootcampDomain.Skill `json:"minimumSkill"`
	ScholarshipAvailable bool                 `json:"scholarshipAvailable"`
	Bootcamp             uuid.UUID            `json:"bootcamp"`
	User                 uuid.UUID            `json:"user"`
}

func (r *SeedReader) Courses() ([]*bootcampDomain.Course, error) {
	var raw []seedCourse
	if err := r.read(CoursesFile, &raw); err != nil {
		return nil, err
	}

	out := make([]*bootcampDomain.Course, 0, len(raw))
	for _, sc := range raw {
		c, err := bootcampDomain.NewCourse(bootcampDomain.CourseInput{
			Title: sc.Title, Description: sc.Description, Weeks: sc.Weeks, Tuition: sc.Tuition,
			MinimumSkill: sc.MinimumSkill, ScholarshipAvailable: sc.ScholarshipAvailable,
		}, sc.Bootcamp, sc.User)
		if err != nil {
			return nil, fmt.Errorf("course %q: %w", sc.Title, err)
		}
		if sc.ID != uuid.Nil {
			c.ID = sc.ID
		}
		out = append(out, c)
	}
	return out, nil
}

type seedReview struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Text     string    `json:"text"`
	Rating   int       `json:"rating"`
	Bootcamp uuid.UUID `json:"bootcamp"`
	User     uuid.UUID `json:"user"`
}

func (r *SeedReader) Reviews() ([]*bootcampDomain.Review, error) {
	var raw []seedReview
	if err := r.read(ReviewsFile, &raw); err != nil {
		return nil, err
	}

	out := make([]*bootcampDomain.Review, 0, len(raw))
	for _, sr := range raw {
		rv, err := bootcampDomain.NewReview(bootcampDomain.ReviewInput{
			Title: sr.Title, Text: sr.Text, Rating: sr.Rating,
		}, sr.Bootcamp, sr.User)
		if err != nil {
			return nil, fmt.Errorf("review %q: %w", sr.Title, err)
		}
		if sr.ID != uuid.Nil {
			rv.ID = sr.ID
		}
		out = append(out, rv)
	}
	return out, nil
}

func (r *SeedReader) Users() ([]SeedUser, error) {
	var users []SeedUser
	if err := r.read(UsersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// read ignora ficheros ausentes: un directorio de datos parcial es válido.
func (r *SeedReader) read(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
