package ui

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
}

// renderTemplate renders a named content template inside the layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	if _, err := tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	return tmpl.Execute(w, data)
}

// templates holds all template content.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    {{if .Username}}
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-4xl mx-auto px-4">
            <div class="flex justify-between h-14 items-center">
                <a href="/" class="text-xl font-bold text-indigo-600">Notor</a>
                <div class="flex items-center">
                    <span class="text-sm text-gray-500 mr-4">{{.Username}}</span>
                    <a href="/logout" class="text-sm text-gray-500 hover:text-gray-700">Logout</a>
                </div>
            </div>
        </div>
    </nav>
    {{end}}

    <main class="max-w-4xl mx-auto py-6 px-4">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"login": `{{define "content"}}
<div class="flex items-center justify-center py-12">
    <div class="max-w-md w-full space-y-6">
        <h2 class="text-center text-3xl font-extrabold text-gray-900">Notor</h2>
        {{if .Error}}
        <div class="rounded-md bg-red-50 p-4 text-sm text-red-700">{{.Error}}</div>
        {{end}}
        <form class="space-y-4" action="/login" method="POST">
            <input name="username" type="text" required placeholder="Username"
                   class="block w-full px-3 py-2 border border-gray-300 rounded-md">
            <input name="pass" type="password" required placeholder="Password"
                   class="block w-full px-3 py-2 border border-gray-300 rounded-md">
            <button type="submit"
                    class="w-full py-2 px-4 rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                Sign in
            </button>
        </form>
    </div>
</div>
{{end}}`,

	"index": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">Notes</h1>
{{if .Notes}}
<ul class="space-y-4">
    {{range .Notes}}
    <li class="bg-white shadow rounded-lg p-4">
        <div class="flex justify-between items-center">
            <a href="/notes/{{.Note.ID}}" class="text-lg font-medium text-indigo-600 hover:text-indigo-800">{{.Note.Title}}</a>
            <span class="text-sm text-gray-400">{{formatTime .Note.Created}}</span>
        </div>
        {{if .Note.Content}}<p class="mt-2 text-sm text-gray-600">{{truncate .Note.Content 200}}</p>{{end}}
        {{if .Tags}}
        <div class="mt-2">
            {{range .Tags}}
            <a href="/tags/{{.ID}}" class="inline-block bg-indigo-100 text-indigo-800 text-xs px-2 py-1 rounded mr-1">{{.Name}}</a>
            {{end}}
        </div>
        {{end}}
    </li>
    {{end}}
</ul>
{{else}}
<p class="text-gray-500">No notes yet.</p>
{{end}}
{{end}}`,

	"note": `{{define "content"}}
<div class="bg-white shadow rounded-lg p-6">
    <div class="flex justify-between items-center mb-4">
        <h1 class="text-2xl font-semibold text-gray-900">{{.Note.Title}}</h1>
        <span class="text-sm text-gray-400">{{formatTime .Note.Created}}</span>
    </div>
    {{if .Tags}}
    <div class="mb-4">
        {{range .Tags}}
        <a href="/tags/{{.ID}}" class="inline-block bg-indigo-100 text-indigo-800 text-xs px-2 py-1 rounded mr-1">{{.Name}}</a>
        {{end}}
    </div>
    {{end}}
    <p class="text-gray-700 whitespace-pre-wrap">{{.Note.Content}}</p>
</div>
{{end}}`,

	"tag": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">Tag: {{.Tag.Name}}</h1>
{{if .Notes}}
<ul class="space-y-4">
    {{range .Notes}}
    <li class="bg-white shadow rounded-lg p-4">
        <div class="flex justify-between items-center">
            <a href="/notes/{{.ID}}" class="text-lg font-medium text-indigo-600 hover:text-indigo-800">{{.Title}}</a>
            <span class="text-sm text-gray-400">{{formatTime .Created}}</span>
        </div>
    </li>
    {{end}}
</ul>
{{else}}
<p class="text-gray-500">No notes carry this tag.</p>
{{end}}
{{end}}`,

	"404": `{{define "content"}}
<div class="text-center py-12">
    <h1 class="text-4xl font-bold text-gray-900">404</h1>
    <p class="mt-2 text-gray-500">{{.URL}} was not found.</p>
    <a href="/" class="mt-4 inline-block text-indigo-600 hover:text-indigo-800">Back to notes</a>
</div>
{{end}}`,
}
