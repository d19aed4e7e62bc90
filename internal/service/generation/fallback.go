package generation

import (
	"fmt"
	"strings"
)

// Fallback synthesizes a deterministic offline artifact for the given prompt.
// It is the last line of defense when the remote model is unavailable or its
// response is unusable: no I/O, no external calls, total over all inputs
// including the empty string.
func Fallback(prompt string) Result {
	title := strings.Join(firstWords(prompt, 5), " ")

	return Result{
		HTML: fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50">
    <div class="container mx-auto px-4 py-8">
        <div class="text-center">
            <h1 class="text-4xl font-bold text-gray-900 mb-4">Welcome</h1>
            <p class="text-lg text-gray-600 mb-8">Your request: "%s"</p>
            <div class="bg-yellow-100 border border-yellow-400 text-yellow-700 px-4 py-3 rounded">
                <p>AI code generation is temporarily unavailable. This is a basic template.</p>
            </div>
        </div>
    </div>
</body>
</html>`, title, prompt),
		CSS: `/* Custom styles can be added here */
.container {
    max-width: 1200px;
}

@media (max-width: 768px) {
    .container {
        padding: 1rem;
    }
}`,
		JavaScript: `// Basic JavaScript functionality
document.addEventListener('DOMContentLoaded', function() {
    console.log('Page loaded successfully');

    // Add any interactive features here
    const title = document.querySelector('h1');
    if (title) {
        title.addEventListener('click', function() {
            alert('Hello from Craftora AI!');
        });
    }
});`,
	}
}

// firstWords returns up to n whitespace-separated words of s.
func firstWords(s string, n int) []string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return words
}
