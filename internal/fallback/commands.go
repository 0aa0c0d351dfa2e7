package fallback

import (
	"strings"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
)

// toolchain describes how a detected manifest is built, run and tested.
type toolchain struct {
	manifest     string
	prerequisite string
	install      []string
	usage        []string
	test         []string
}

// toolchains is ordered by preference; the first match supplies the usage
// commands, every match contributes prerequisites and install steps.
var toolchains = []toolchain{
	{"package.json", "Node.js and npm", []string{"npm install"}, []string{"npm start"}, []string{"npm test"}},
	{"pyproject.toml", "Python 3", []string{"pip install -e ."}, nil, []string{"pytest"}},
	{"requirements.txt", "Python 3", []string{"pip install -r requirements.txt"}, nil, []string{"pytest"}},
	{"Pipfile", "Python 3 and Pipenv", []string{"pipenv install"}, nil, []string{"pipenv run pytest"}},
	{"Cargo.toml", "Rust toolchain (cargo)", []string{"cargo build --release"}, []string{"cargo run"}, []string{"cargo test"}},
	{"go.mod", "Go toolchain", []string{"go build ./..."}, []string{"go run ."}, []string{"go test ./..."}},
	{"pom.xml", "Java JDK and Maven", []string{"mvn install"}, []string{"mvn exec:java"}, []string{"mvn test"}},
	{"build.gradle", "Java JDK", []string{"./gradlew build"}, []string{"./gradlew run"}, []string{"./gradlew test"}},
	{"composer.json", "PHP and Composer", []string{"composer install"}, nil, []string{"vendor/bin/phpunit"}},
	{"Gemfile", "Ruby and Bundler", []string{"bundle install"}, nil, []string{"bundle exec rake test"}},
	{"Makefile", "make", []string{"make"}, nil, []string{"make test"}},
	{"Dockerfile", "Docker", nil, []string{"docker build -t {{name}} .", "docker run --rm {{name}}"}, nil},
}

type commands struct {
	prerequisites []string
	install       []string
	usage         []string
	test          []string
}

func deriveCommands(res *analysis.Result, name string) commands {
	var c commands
	seenPrereq := map[string]bool{}
	for _, tc := range toolchains {
		if !res.HasMarker(tc.manifest) {
			continue
		}
		if !seenPrereq[tc.prerequisite] {
			seenPrereq[tc.prerequisite] = true
			c.prerequisites = append(c.prerequisites, tc.prerequisite)
		}
		if len(c.install) == 0 {
			c.install = append(c.install, tc.install...)
		}
		if len(c.usage) == 0 {
			for _, u := range tc.usage {
				c.usage = append(c.usage, expandName(u, name))
			}
		}
		if len(c.test) == 0 {
			c.test = append(c.test, tc.test...)
		}
	}
	if len(c.usage) == 0 {
		c.usage = []string{"# See the project files for entry points"}
	}
	return c
}

func expandName(cmd, name string) string {
	return strings.ReplaceAll(cmd, "{{name}}", imageName(name))
}

// imageName lowercases name into a valid container image name.
func imageName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "app"
	}
	return b.String()
}
