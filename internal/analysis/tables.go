package analysis

// Static detector tables. Read-only after init; shared by concurrent analyses.

// languageByExt maps a lowercase file extension to a language name.
var languageByExt = map[string]string{
	".py":     "Python",
	".js":     "JavaScript",
	".mjs":    "JavaScript",
	".ts":     "TypeScript",
	".jsx":    "React",
	".tsx":    "React",
	".java":   "Java",
	".cpp":    "C++",
	".cc":     "C++",
	".hpp":    "C++",
	".c":      "C",
	".h":      "C",
	".cs":     "C#",
	".go":     "Go",
	".rs":     "Rust",
	".php":    "PHP",
	".rb":     "Ruby",
	".swift":  "Swift",
	".kt":     "Kotlin",
	".scala":  "Scala",
	".dart":   "Dart",
	".html":   "HTML",
	".css":    "CSS",
	".scss":   "SCSS",
	".vue":    "Vue.js",
	".svelte": "Svelte",
	".r":      "R",
	".m":      "MATLAB",
	".sh":     "Shell",
}

// markerByFilename maps an exact file name to a framework or build marker label.
var markerByFilename = map[string]string{
	"package.json":       "Node.js/npm project",
	"requirements.txt":   "Python project",
	"pyproject.toml":     "Python project (Poetry/modern)",
	"Pipfile":            "Python project (Pipenv)",
	"setup.py":           "Python project (setuptools)",
	"pom.xml":            "Java (Maven)",
	"build.gradle":       "Java/Android (Gradle)",
	"build.gradle.kts":   "Kotlin (Gradle)",
	"Cargo.toml":         "Rust project",
	"go.mod":             "Go module",
	"composer.json":      "PHP (Composer)",
	"Gemfile":            "Ruby (Bundler)",
	"Dockerfile":         "Docker containerized",
	"docker-compose.yml": "Docker Compose",
	"Makefile":           "Make build",
	"tsconfig.json":      "TypeScript project",
	"angular.json":       "Angular project",
	"vue.config.js":      "Vue.js project",
	"next.config.js":     "Next.js project",
	"nuxt.config.js":     "Nuxt.js project",
	"gatsby-config.js":   "Gatsby project",
	"webpack.config.js":  "Webpack build",
	"vite.config.js":     "Vite build",
	"rollup.config.js":   "Rollup build",
	"pubspec.yaml":       "Dart/Flutter (pub)",
}

var testFileSubstrings = []string{"test_", "_test.", ".spec.", ".test."}

var testDirNames = map[string]bool{
	"test":      true,
	"tests":     true,
	"__tests__": true,
	"spec":      true,
	"specs":     true,
}

var docFileSubstrings = []string{"readme", "docs", "documentation", "wiki", "license"}

var docDirNames = map[string]bool{
	"docs":          true,
	"doc":           true,
	"documentation": true,
	"wiki":          true,
}

// ciPathSubstrings match against the lowercase slash-separated relative path.
var ciPathSubstrings = []string{
	".github/workflows",
	".gitlab-ci",
	"jenkinsfile",
	".travis.yml",
	".circleci",
	"circle.yml",
	"azure-pipelines",
	"bitbucket-pipelines",
}

// locExts are the extensions whose lines are counted.
var locExts = map[string]bool{
	".py":   true,
	".js":   true,
	".ts":   true,
	".jsx":  true,
	".tsx":  true,
	".java": true,
	".cpp":  true,
	".c":    true,
	".cs":   true,
	".go":   true,
	".rs":   true,
	".rb":   true,
	".php":  true,
	".kt":   true,
}

// README-like and LICENSE-like name prefixes (lowercase).
var (
	readmePrefixes  = []string{"readme"}
	licensePrefixes = []string{"license", "licence", "copying"}
)
