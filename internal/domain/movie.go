package domain

type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       Genre    `json:"genre"`
	Director    Director `json:"director"`
	ReleaseYear int      `json:"release_year,omitempty"`
	ImagePath   string   `json:"image_path,omitempty"`
	Featured    bool     `json:"featured"`
}

type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Director struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	BirthYear *int   `json:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty"`
}
