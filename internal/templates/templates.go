// Package templates holds the built-in pane definitions seeded into the
// global tier. Each template is identified by a stable TemplateID used as
// the seeding idempotency key.
package templates

import "panekit/internal/model"

// All returns every built-in template as a pane definition without
// identity fields. The store assigns ID and timestamps when installing.
func All() []model.Pane {
	return []model.Pane{
		jqTemplate(),
		regexExtractorTemplate(),
		linkExtractorTemplate(),
		cookieParserTemplate(),
		commentFinderTemplate(),
		entropyAnalyzerTemplate(),
	}
}

// ByID returns the template with the given TemplateID.
func ByID(templateID string) (model.Pane, bool) {
	for _, t := range All() {
		if t.TemplateID == templateID {
			return t, true
		}
	}
	return model.Pane{}, false
}

func allLocations() []model.Location {
	return []model.Location{
		model.LocationHTTPHistory,
		model.LocationReplay,
		model.LocationSitemap,
		model.LocationAutomate,
		model.LocationIntercept,
	}
}

func jqTemplate() model.Pane {
	return model.Pane{
		TemplateID:  "jq",
		Name:        "jq - JSON Processor",
		TabName:     "jq",
		Description: "Process and format JSON using jq. Example: jq '.key' or jq '.' for pretty print",
		Enabled:     false,
		Scope:       model.ScopeGlobal,
		Input:       model.InputResponseBody,
		Locations:   allLocations(),
		Transformation: model.Transformation{
			Type:    model.TransformationCommand,
			Command: "jq .",
			Timeout: 30,
		},
		CodeBlock: true,
		Language:  "json",
	}
}

func regexExtractorTemplate() model.Pane {
	return model.Pane{
		TemplateID:  "regex-extractor",
		Name:        "Pattern Extractor",
		TabName:     "Extract",
		Description: "Extract common patterns: IPs, emails, domains, S3 buckets, private keys, and more.",
		Enabled:     false,
		Scope:       model.ScopeGlobal,
		Input:       model.InputResponseBody,
		Locations:   allLocations(),
		Transformation: model.Transformation{
			Type:        model.TransformationCommand,
			Command:     regexExtractorCommand,
			Timeout:     30,
			Shell:       DefaultShell(),
			ShellConfig: DefaultShellConfig(),
		},
		CodeBlock: true,
		Language:  "text",
	}
}

const regexExtractorCommand = `awk '
BEGIN { IGNORECASE = 1 }

# IPv4 Addresses
/([0-9]{1,3}\.){3}[0-9]{1,3}/ {
  while (match($0, /([0-9]{1,3}\.){3}[0-9]{1,3}/)) {
    ip = substr($0, RSTART, RLENGTH)
    if (!seen_ip[ip]++) ips[++ip_count] = ip
    $0 = substr($0, RSTART + RLENGTH)
  }
}

# Email Addresses
/[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}/ {
  while (match($0, /[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}/)) {
    email = substr($0, RSTART, RLENGTH)
    if (!seen_email[email]++) emails[++email_count] = email
    $0 = substr($0, RSTART + RLENGTH)
  }
}

# S3 Buckets
/s3\.amazonaws\.com\/[a-z0-9.-]+|[a-z0-9.-]+\.s3\.amazonaws\.com/ {
  while (match($0, /s3\.amazonaws\.com\/[a-z0-9.-]+|[a-z0-9.-]+\.s3\.amazonaws\.com/)) {
    bucket = substr($0, RSTART, RLENGTH)
    if (!seen_bucket[bucket]++) buckets[++bucket_count] = bucket
    $0 = substr($0, RSTART + RLENGTH)
  }
}

# Internal Paths
/\/(api|admin|internal|private|dev|test|staging|debug)\/[a-zA-Z0-9_\/-]+/ {
  while (match($0, /\/(api|admin|internal|private|dev|test|staging|debug)\/[a-zA-Z0-9_\/-]+/)) {
    path = substr($0, RSTART, RLENGTH)
    if (!seen_path[path]++) paths[++path_count] = path
    $0 = substr($0, RSTART + RLENGTH)
  }
}

END {
  if (ip_count > 0) {
    print "=== IP ADDRESSES ==="
    for (i = 1; i <= ip_count; i++) print "  " ips[i]
    print ""
  }
  if (email_count > 0) {
    print "=== EMAILS ==="
    for (i = 1; i <= email_count; i++) print "  " emails[i]
    print ""
  }
  if (bucket_count > 0) {
    print "=== S3 BUCKETS ==="
    for (i = 1; i <= bucket_count; i++) print "  " buckets[i]
    print ""
  }
  if (path_count > 0) {
    print "=== INTERESTING PATHS ==="
    for (i = 1; i <= path_count; i++) print "  " paths[i]
    print ""
  }
  if (ip_count + email_count + bucket_count + path_count == 0) {
    print "[i] No patterns found"
  } else {
    total = ip_count + email_count + bucket_count + path_count
    print "---"
    print "Total: " total " unique patterns found"
  }
}'`

func linkExtractorTemplate() model.Pane {
	return model.Pane{
		TemplateID:  "link-extractor",
		Name:        "Link & Endpoint Finder",
		TabName:     "Links",
		Description: "Extract URLs, API endpoints, and paths from responses. Great for JS files and HTML.",
		Enabled:     false,
		Scope:       model.ScopeGlobal,
		Input:       model.InputResponseBody,
		Locations:   allLocations(),
		Transformation: model.Transformation{
			Type:    model.TransformationCommand,
			Command: linkExtractorCommand,
			Timeout: 30,
		},
		CodeBlock: true,
		Language:  "text",
	}
}

const linkExtractorCommand = `grep -oE '(https?://[^"'"'"'\s<>\)\]]+|/[a-zA-Z0-9_/-]+\.(js|json|xml|php|asp|aspx|jsp|html|htm|css)|/api/[^"'"'"'\s<>\)\]]+|/v[0-9]+/[^"'"'"'\s<>\)\]]+)' | \
sed "s/[\"']//g" | \
sort -u | \
awk '
BEGIN {
  print "=== EXTRACTED LINKS & ENDPOINTS ===\n"
}
/^https?:\/\// {
  urls[++url_count] = $0
  next
}
/^\/api\// || /^\/v[0-9]+\// {
  apis[++api_count] = $0
  next
}
/\.(js|json|xml|php|asp|aspx|jsp|html|htm|css)$/ {
  resources[++res_count] = $0
  next
}
/^\/[a-zA-Z]/ {
  paths[++path_count] = $0
}
END {
  if (url_count > 0) {
    print "FULL URLS (" url_count "):"
    for (i = 1; i <= url_count; i++) print "  " urls[i]
    print ""
  }
  if (api_count > 0) {
    print "API ENDPOINTS (" api_count "):"
    for (i = 1; i <= api_count; i++) print "  " apis[i]
    print ""
  }
  if (res_count > 0) {
    print "RESOURCES (" res_count "):"
    for (i = 1; i <= res_count; i++) print "  " resources[i]
    print ""
  }
  if (path_count > 0) {
    print "PATHS (" path_count "):"
    for (i = 1; i <= path_count; i++) print "  " paths[i]
    print ""
  }
  total = url_count + api_count + res_count + path_count
  if (total == 0) {
    print "[i] No links or endpoints found"
  }
}'`

func cookieParserTemplate() model.Pane {
	return model.Pane{
		TemplateID:  "cookie-parser",
		Name:        "Cookie Analyzer",
		TabName:     "Cookies",
		Description: "Parse and analyze cookies from Set-Cookie headers. Shows flags, expiry, and security issues.",
		Enabled:     false,
		Scope:       model.ScopeGlobal,
		Input:       model.InputResponseHeaders,
		Locations:   allLocations(),
		Transformation: model.Transformation{
			Type:    model.TransformationCommand,
			Command: cookieParserCommand,
			Timeout: 30,
		},
		CodeBlock: true,
		Language:  "text",
	}
}

const cookieParserCommand = `python3 -c "
import sys, json

headers = json.loads(sys.stdin.read())
cookies = headers.get('set-cookie', headers.get('Set-Cookie', []))

if isinstance(cookies, str):
    cookies = [cookies]

if not cookies:
    print('[i] No Set-Cookie headers found')
    sys.exit(0)

print('=== COOKIE ANALYSIS ===\n')

issues = []

for i, cookie in enumerate(cookies, 1):
    parts = cookie.split(';')
    name_value = parts[0].strip()
    name = name_value.split('=')[0] if '=' in name_value else name_value

    print(f'Cookie #{i}: {name}')
    print(f'  Full: {name_value[:80]}...' if len(name_value) > 80 else f'  Full: {name_value}')

    attrs = {'httponly': False, 'secure': False, 'samesite': None, 'path': None, 'domain': None, 'expires': None}

    for part in parts[1:]:
        part = part.strip().lower()
        if part == 'httponly':
            attrs['httponly'] = True
        elif part == 'secure':
            attrs['secure'] = True
        elif part.startswith('samesite='):
            attrs['samesite'] = part.split('=')[1]
        elif part.startswith('path='):
            attrs['path'] = part.split('=')[1]
        elif part.startswith('domain='):
            attrs['domain'] = part.split('=')[1]
        elif part.startswith('expires='):
            attrs['expires'] = part.split('=', 1)[1]

    flags = []
    if attrs['httponly']: flags.append('HttpOnly')
    if attrs['secure']: flags.append('Secure')
    if attrs['samesite']: flags.append(f\"SameSite={attrs['samesite']}\")

    print(f\"  Flags: {', '.join(flags) if flags else 'NONE'}\")
    if attrs['path']: print(f\"  Path: {attrs['path']}\")
    if attrs['domain']: print(f\"  Domain: {attrs['domain']}\")
    if attrs['expires']: print(f\"  Expires: {attrs['expires']}\")

    if not attrs['httponly']:
        issues.append(f'{name}: Missing HttpOnly flag (XSS risk)')
    if not attrs['secure']:
        issues.append(f'{name}: Missing Secure flag (sent over HTTP)')
    if not attrs['samesite']:
        issues.append(f'{name}: Missing SameSite (CSRF risk)')
    elif attrs['samesite'] == 'none' and not attrs['secure']:
        issues.append(f'{name}: SameSite=None requires Secure')

    print()

if issues:
    print('=== SECURITY ISSUES ===')
    for issue in issues:
        print(f'  [!] {issue}')
else:
    print('[OK] No obvious cookie security issues')
"`

func commentFinderTemplate() model.Pane {
	return model.Pane{
		TemplateID:  "comment-finder",
		Name:        "Comment Finder",
		TabName:     "Comments",
		Description: "Find HTML, JavaScript, and CSS comments. Often reveals sensitive info, TODOs, and debug code.",
		Enabled:     false,
		Scope:       model.ScopeGlobal,
		Input:       model.InputResponseBody,
		Locations:   allLocations(),
		Transformation: model.Transformation{
			Type:        model.TransformationCommand,
			Command:     commentFinderCommand,
			Timeout:     30,
			Shell:       "/bin/bash",
			ShellConfig: "~/.bashrc",
		},
		CodeBlock: true,
		Language:  "text",
	}
}

const commentFinderCommand = `python3 -c "
import sys, re

content = sys.stdin.read()

html_comments = re.findall(r'<!--(.*?)-->', content, re.DOTALL)
js_single = re.findall(r'(?<!:)//(?!/)[^\n]*', content)
multi_comments = re.findall(r'/\*([^*]|\*(?!/))*\*/', content, re.DOTALL)

print('=== COMMENT ANALYSIS ===\n')

total = 0

if html_comments:
    print(f'HTML COMMENTS ({len(html_comments)}):')
    for i, c in enumerate(html_comments[:20], 1):
        c = c.strip()
        if c:
            preview = c[:100].replace('\n', ' ')
            if len(c) > 100: preview += '...'
            print(f'  {i}. {preview}')
    if len(html_comments) > 20:
        print(f'  ... and {len(html_comments) - 20} more')
    print()
    total += len(html_comments)

if js_single:
    js_single = [c.strip() for c in js_single if len(c.strip()) > 3]
    js_single = [c for c in js_single if not c.startswith('//# source')]
    if js_single:
        print(f'JS SINGLE-LINE ({len(js_single)}):')
        for i, c in enumerate(js_single[:15], 1):
            print(f'  {i}. {c[:80]}')
        if len(js_single) > 15:
            print(f'  ... and {len(js_single) - 15} more')
        print()
        total += len(js_single)

if multi_comments:
    multi_comments = [c.strip() for c in multi_comments if len(c.strip()) > 5]
    if multi_comments:
        print(f'MULTI-LINE COMMENTS ({len(multi_comments)}):')
        for i, c in enumerate(multi_comments[:10], 1):
            preview = c[:120].replace('\n', ' ').strip()
            if len(c) > 120: preview += '...'
            print(f'  {i}. /* {preview} */')
        if len(multi_comments) > 10:
            print(f'  ... and {len(multi_comments) - 10} more')
        print()
        total += len(multi_comments)

all_comments = ' '.join(html_comments + js_single + multi_comments)
interesting = []
patterns = [
    (r'TODO[:\s]', 'TODO'),
    (r'FIXME[:\s]', 'FIXME'),
    (r'HACK[:\s]', 'HACK'),
    (r'password', 'password mention'),
    (r'secret', 'secret mention'),
    (r'api[_-]?key', 'API key mention'),
    (r'admin', 'admin mention'),
    (r'debug', 'debug mention'),
    (r'test', 'test mention'),
]

for pattern, label in patterns:
    if re.search(pattern, all_comments, re.IGNORECASE):
        interesting.append(label)

if interesting:
    print('INTERESTING KEYWORDS FOUND:')
    print('  ' + ', '.join(interesting))
    print()

if total == 0:
    print('[i] No comments found')
else:
    print(f'---\nTotal: {total} comments found')
"`

func entropyAnalyzerTemplate() model.Pane {
	return model.Pane{
		TemplateID:  "entropy-analyzer",
		Name:        "Entropy Analyzer",
		TabName:     "Entropy",
		Description: "Calculate Shannon entropy to detect encoded, encrypted, or compressed data. High entropy = likely encoded.",
		Enabled:     false,
		Scope:       model.ScopeGlobal,
		Input:       model.InputResponseBody,
		Locations:   allLocations(),
		Transformation: model.Transformation{
			Type:    model.TransformationCommand,
			Command: entropyAnalyzerCommand,
			Timeout: 30,
		},
		CodeBlock: true,
		Language:  "text",
	}
}

const entropyAnalyzerCommand = `python3 -c "
import sys
import math
import re
from collections import Counter

data = sys.stdin.read()

if not data:
    print('[i] Empty input')
    sys.exit(0)

def calc_entropy(s):
    if not s:
        return 0
    freq = Counter(s)
    length = len(s)
    entropy = -sum((count/length) * math.log2(count/length) for count in freq.values())
    return entropy

def analyze_chunk(chunk):
    entropy = calc_entropy(chunk)
    if entropy < 2:
        assessment = 'Very low - repetitive/simple data'
    elif entropy < 4:
        assessment = 'Low - likely plain text'
    elif entropy < 5:
        assessment = 'Medium - structured data'
    elif entropy < 6:
        assessment = 'Medium-high - possibly encoded'
    elif entropy < 7:
        assessment = 'High - likely Base64/encoded'
    else:
        assessment = 'Very high - encrypted/compressed/random'
    return entropy, assessment

print('=== ENTROPY ANALYSIS ===\n')

total_entropy, total_assessment = analyze_chunk(data)
print(f'Overall Entropy: {total_entropy:.3f} bits/byte')
print(f'Assessment: {total_assessment}')
print(f'Data size: {len(data):,} bytes')
print()

printable = sum(1 for c in data if c.isprintable())
alpha = sum(1 for c in data if c.isalpha())
digits = sum(1 for c in data if c.isdigit())
spaces = sum(1 for c in data if c.isspace())
total = len(data)

print('CHARACTER DISTRIBUTION:')
print(f'  Printable: {printable:,} ({100*printable/total:.1f}%)')
print(f'  Alphabetic: {alpha:,} ({100*alpha/total:.1f}%)')
print(f'  Digits: {digits:,} ({100*digits/total:.1f}%)')
print(f'  Whitespace: {spaces:,} ({100*spaces/total:.1f}%)')
print()

high_entropy_strings = []
for match in re.finditer(r'[A-Za-z0-9+/=_-]{20,}', data):
    s = match.group()
    e = calc_entropy(s)
    if e > 4.5 and len(s) >= 20:
        high_entropy_strings.append((s[:50] + '...' if len(s) > 50 else s, e, len(s)))

if high_entropy_strings:
    print('HIGH ENTROPY STRINGS (potential secrets):')
    for s, e, length in sorted(high_entropy_strings, key=lambda x: -x[1])[:10]:
        print(f'  [{e:.2f}] ({length} chars) {s}')
    print()

lines = data.split('\n')[:50]
high_lines = [(i+1, calc_entropy(line), line[:60]) for i, line in enumerate(lines) if line.strip() and calc_entropy(line) > 5.5]

if high_lines:
    print('HIGH ENTROPY LINES:')
    for linenum, e, preview in sorted(high_lines, key=lambda x: -x[1])[:5]:
        print(f'  Line {linenum} [{e:.2f}]: {preview}...' if len(preview) >= 60 else f'  Line {linenum} [{e:.2f}]: {preview}')

bar_length = 30
filled = int((total_entropy / 8) * bar_length)
bar = '[' + '#' * filled + '-' * (bar_length - filled) + ']'
print(f'\nEntropy: {bar} {total_entropy:.2f}/8.00')
"`
