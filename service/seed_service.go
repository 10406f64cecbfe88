package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"mycareerlist/model"
	"mycareerlist/repository"
	"mycareerlist/utils"
)

// SeedFile bulk import document
type SeedFile struct {
	Owner     string        `yaml:"owner"`
	Companies []SeedCompany `yaml:"companies"`
	Jobs      []SeedJob     `yaml:"jobs"`
}

type SeedCompany struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Website     string `yaml:"website"`
	Logo        string `yaml:"logo"`
	Region      string `yaml:"region"`
	City        string `yaml:"city"`
}

type SeedJob struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Company     string `yaml:"company"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
	Location    string `yaml:"location"`
	City        string `yaml:"city"`
	ApplyLink   string `yaml:"apply"`
	Featured    bool   `yaml:"featured"`
}

// SeedResult counts of rows created by an import
type SeedResult struct {
	Companies int
	Jobs      int
}

// SeedService imports companies and published jobs from YAML
type SeedService struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jobRepo     repository.JobRepository
}

func NewSeedService(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	jobRepo repository.JobRepository,
) *SeedService {
	return &SeedService{userRepo: userRepo, companyRepo: companyRepo, jobRepo: jobRepo}
}

// Import reads a SeedFile from r. Companies are matched by name and jobs by
// slug, so importing the same file twice creates nothing the second time.
func (s *SeedService) Import(ctx context.Context, r io.Reader) (*SeedResult, error) {
	var file SeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if strings.TrimSpace(file.Owner) == "" {
		return nil, invalid("owner", "is required")
	}

	owner, err := s.ensureOwner(ctx, strings.ToLower(strings.TrimSpace(file.Owner)))
	if err != nil {
		return nil, err
	}

	result := &SeedResult{}
	companies := make(map[string]*model.CompanyEntity, len(file.Companies))
	for _, c := range file.Companies {
		company, created, err := s.ensureCompany(ctx, owner.ID, c)
		if err != nil {
			return nil, err
		}
		companies[company.Name] = company
		if created {
			result.Companies++
		}
	}

	for _, j := range file.Jobs {
		company, ok := companies[strings.TrimSpace(j.Company)]
		if !ok {
			return nil, invalid("jobs.company", fmt.Sprintf("unknown company %q", j.Company))
		}
		slug := utils.JobSlug(j.Title, company.Name)
		existing, err := s.jobRepo.FindBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("load job %s: %w", slug, err)
		}
		if existing != nil {
			continue
		}

		job := &model.JobEntity{
			Title:       strings.TrimSpace(j.Title),
			Description: strings.TrimSpace(j.Description),
			Slug:        slug,
			Type:        strings.ToLower(j.Type),
			Category:    j.Category,
			Location:    defaultString(j.Location, "remote"),
			City:        j.City,
			ApplyLink:   j.ApplyLink,
			Featured:    j.Featured,
			Draft:       false,
			CompanyID:   company.ID,
			UserID:      owner.ID,
		}
		if err := s.jobRepo.Create(ctx, job); err != nil {
			return nil, fmt.Errorf("create job %s: %w", slug, err)
		}
		result.Jobs++
	}

	log.WithFields(log.Fields{"companies": result.Companies, "jobs": result.Jobs}).Info("seed import finished")
	return result, nil
}

func (s *SeedService) ensureOwner(ctx context.Context, email string) (*model.UserEntity, error) {
	owner, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	if owner != nil {
		return owner, nil
	}
	owner = &model.UserEntity{Email: email, Role: model.RoleEmployer}
	if err := s.userRepo.Create(ctx, owner); err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}
	return owner, nil
}

func (s *SeedService) ensureCompany(ctx context.Context, ownerID string, c SeedCompany) (*model.CompanyEntity, bool, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, false, invalid("companies.name", "is required")
	}
	existing, err := s.companyRepo.FindByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("load company %s: %w", name, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	company := &model.CompanyEntity{
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: strings.TrimSpace(c.Description),
		Website:     c.Website,
		Logo:        c.Logo,
		Region:      defaultString(c.Region, "remote"),
		City:        c.City,
		UserID:      ownerID,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		if repository.IsDuplicate(err) {
			return nil, false, fmt.Errorf("company %s: %w", name, ErrConflict)
		}
		return nil, false, fmt.Errorf("create company %s: %w", name, err)
	}
	return company, true, nil
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
