package models

// ProfileInput — закрытое объединение данных профиля, создаваемого вместе
// с пользователем при регистрации. Каждая роль несёт собственный вариант;
// обработка везде идёт через исчерпывающий type switch, так что появление
// новой роли ломает компиляцию вместо тихого пропуска ветки.
type ProfileInput interface {
	isProfileInput()
	// Role возвращает роль, которой соответствует профиль.
	Role() Role
}

// StudentProfile — профиль студента.
type StudentProfile struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	City        string   `json:"city,omitempty"`
	Country     string   `json:"country,omitempty"`
	ResumeURL   string   `json:"resume_url,omitempty"`
	LinkedinURL string   `json:"linkedin_url,omitempty"`
	GithubURL   string   `json:"github_url,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

func (StudentProfile) isProfileInput() {}

func (StudentProfile) Role() Role { return RoleStudent }

// CompanyProfile — профиль компании.
type CompanyProfile struct {
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	FoundedYear int    `json:"founded_year,omitempty"`
}

func (CompanyProfile) isProfileInput() {}

func (CompanyProfile) Role() Role { return RoleCompany }

// UniversityProfile — профиль университета.
type UniversityProfile struct {
	UniversityName string `json:"university_name"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	Website        string `json:"website,omitempty"`
	Description    string `json:"description,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
}

func (UniversityProfile) isProfileInput() {}

func (UniversityProfile) Role() Role { return RoleUniversity }
