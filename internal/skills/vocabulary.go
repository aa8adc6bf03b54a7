package skills

// The tables below are read-only. Nothing in the module writes to them after
// package initialisation.

// vocabulary is the set of lowercase skill tokens searched for in text.
var vocabulary = newSet(
	// languages
	"python", "javascript", "typescript", "java", "go", "rust", "c++", "c#", "ruby",
	"php", "swift", "kotlin", "scala", "matlab", "perl", "shell",

	// frontend
	"react", "vue", "angular", "svelte", "next.js", "nuxt", "gatsby",
	"html", "css", "sass", "tailwind", "bootstrap", "webpack", "vite",

	// backend
	"node.js", "express", "django", "flask", "fastapi", "rails", "spring",
	"graphql", "rest", "grpc", "websocket",

	// databases
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "dynamodb",
	"cassandra", "firebase", "supabase", "prisma",

	// cloud & devops
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform", "ansible",
	"jenkins", "github actions", "gitlab ci", "circleci", "cloudformation",

	// ml / ai
	"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
	"nlp", "computer vision", "pandas", "numpy", "scikit-learn",
	"llm", "gpt", "langchain", "hugging face",

	// data engineering
	"spark", "hadoop", "kafka", "airflow", "dbt", "etl", "data pipeline",

	// mobile
	"react native", "flutter", "ios", "android", "swiftui", "jetpack compose",

	// other
	"git", "linux", "agile", "scrum", "ci/cd", "rest api", "microservices",
	"system design", "oauth", "jwt",
)

// aliases maps lexical variants to their canonical spelling.
var aliases = map[string]string{
	"py":       "python",
	"js":       "javascript",
	"ts":       "typescript",
	"golang":   "go",
	"reactjs":  "react",
	"react.js": "react",
	"nodejs":   "node.js",
	"node":     "node.js",
	"postgres": "postgresql",
	"pg":       "postgresql",
	"mongo":    "mongodb",
	"k8s":      "kubernetes",
	"ml":       "machine learning",
	"dl":       "deep learning",
	"tf":       "tensorflow",
}

// Category names, in the order they are checked.
const (
	CategoryLanguages = "languages"
	CategoryFrontend  = "frontend"
	CategoryBackend   = "backend"
	CategoryDatabases = "databases"
	CategoryCloud     = "cloud"
	CategoryMLAI      = "ml_ai"
	CategoryOther     = "other"
)

type bucket struct {
	name    string
	members map[string]struct{}
}

// buckets is evaluated top to bottom; a skill lands in the first bucket whose
// member set contains it. Anything unmatched goes to CategoryOther.
var buckets = []bucket{
	{CategoryLanguages, newSet(
		"python", "javascript", "typescript", "java", "go", "rust",
		"c++", "c#", "ruby", "php", "swift", "kotlin", "scala",
	)},
	{CategoryFrontend, newSet("react", "vue", "angular", "svelte", "next.js", "html", "css")},
	{CategoryBackend, newSet("node.js", "express", "django", "flask", "graphql", "rest")},
	{CategoryDatabases, newSet("postgresql", "mysql", "mongodb", "redis", "elasticsearch")},
	{CategoryCloud, newSet("aws", "gcp", "azure", "docker", "kubernetes")},
	{CategoryMLAI, newSet("machine learning", "deep learning", "tensorflow", "pytorch", "nlp")},
}

func newSet(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
