package webserver

// pageHTML is the whole frontend: one form, one status banner, three result
// regions, and a small markdown-subset renderer.
const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>YouTube Claim Checker</title>
    <style>
        :root { --bg: #121212; --card: #1e1e1e; --text: #e0e0e0; --accent: #e63946; --ok: #2a9d8f; }
        body { background: var(--bg); color: var(--text); font-family: system-ui, sans-serif; margin: 0; padding: 2rem 1rem; display: flex; justify-content: center; }
        .container { background: var(--card); padding: 2rem; border-radius: 12px; box-shadow: 0 10px 30px rgba(0,0,0,0.5); width: 100%; max-width: 720px; }
        h1 { margin: 0 0 0.5rem; font-size: 1.6rem; color: var(--accent); }
        p.tagline { margin: 0 0 1.5rem; color: #999; }
        form { display: flex; gap: 10px; }
        input { flex: 1; padding: 12px; border: 1px solid #333; border-radius: 6px; background: #252525; color: #fff; outline: none; }
        input:focus { border-color: var(--accent); }
        button { padding: 12px 20px; border: none; border-radius: 6px; background: var(--accent); color: white; font-weight: bold; cursor: pointer; }
        button:disabled { background: #555; cursor: not-allowed; }
        #status { margin: 1rem 0; padding: 10px 14px; border-radius: 6px; display: none; }
        #status.loading { display: block; background: #2b2b2b; }
        #status.success { display: block; background: rgba(42,157,143,0.15); color: var(--ok); }
        #status.error { display: block; background: rgba(230,57,70,0.15); color: var(--accent); }
        #warning { display: none; margin: 1rem 0; padding: 10px 14px; border-radius: 6px; background: rgba(244,162,97,0.15); color: #f4a261; }
        #results { display: none; margin-top: 1.5rem; }
        .section { margin-bottom: 1.5rem; }
        .section h2 { font-size: 1.1rem; border-bottom: 1px solid #333; padding-bottom: 6px; }
        .section .body { line-height: 1.6; word-break: break-word; }
        a { color: #4ea8de; }
    </style>
</head>
<body>
    <div class="container">
        <h1>YouTube Claim Checker</h1>
        <p class="tagline">Paste a video link to extract its factual claims and fact-check them.</p>

        <div id="warning">AI backend is not configured on the server; checks will fail until GEMINI_API_KEY is set.</div>

        <form id="checkForm">
            <input type="text" id="videoUrl" placeholder="https://www.youtube.com/watch?v=...">
            <button type="submit" id="checkBtn">Check Claims</button>
        </form>

        <div id="status"></div>

        <div id="results">
            <div class="section">
                <h2>Video</h2>
                <div class="body"><a id="videoLink" target="_blank" rel="noopener"></a></div>
            </div>
            <div class="section">
                <h2>Extracted Claims</h2>
                <div class="body" id="claims"></div>
            </div>
            <div class="section">
                <h2>Fact-Check Results</h2>
                <div class="body" id="factCheck"></div>
            </div>
        </div>
    </div>

    <script>
        const form = document.getElementById('checkForm');
        const urlInput = document.getElementById('videoUrl');
        const btn = document.getElementById('checkBtn');
        const status = document.getElementById('status');
        const results = document.getElementById('results');

        let checking = false;
        let clearTimer = null;

        function setStatus(kind, message) {
            if (clearTimer) { clearTimeout(clearTimer); clearTimer = null; }
            status.className = kind;
            status.textContent = message;
            if (kind === 'success') {
                clearTimer = setTimeout(() => { status.className = ''; }, 5000);
            }
        }

        // Renders the markdown subset the backend produces: bold, italic and
        // paragraph breaks. The server sanitizes the text before it gets here.
        function renderMarkdown(text) {
            let html = text;
            html = html.replace(/\*\*([^*]+)\*\*/g, '<strong>$1</strong>');
            html = html.replace(/\*([^*]+)\*/g, '<em>$1</em>');
            return html.split(/\n\s*\n/).map(p => '<p>' + p.replace(/\n/g, '<br>') + '</p>').join('');
        }

        form.addEventListener('submit', async (e) => {
            e.preventDefault();
            if (checking) return;

            const videoUrl = urlInput.value.trim();
            if (!videoUrl) {
                setStatus('error', 'Please enter a YouTube URL');
                return;
            }

            checking = true;
            btn.disabled = true;
            results.style.display = 'none';
            setStatus('loading', 'Fetching transcript and fact-checking claims. This can take a minute...');

            try {
                const resp = await fetch('/api/check-claims', {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: JSON.stringify({video_url: videoUrl})
                });
                const payload = await resp.json();

                if (!payload.success) {
                    throw new Error(payload.error || 'The server rejected the request');
                }

                const link = document.getElementById('videoLink');
                link.textContent = payload.video_title;
                link.href = payload.video_url;
                document.getElementById('claims').innerHTML = renderMarkdown(payload.claims);
                document.getElementById('factCheck').innerHTML = renderMarkdown(payload.fact_check_results);
                results.style.display = 'block';
                setStatus('success', 'Done! Checked ' + payload.transcript_length + ' characters of transcript.');
            } catch (err) {
                setStatus('error', err.message || 'Network error, please try again');
            } finally {
                checking = false;
                btn.disabled = false;
            }
        });

        fetch('/api/health')
            .then(r => r.json())
            .then(h => {
                if (!h.gemini_configured) {
                    document.getElementById('warning').style.display = 'block';
                }
            })
            .catch(() => {});
    </script>
</body>
</html>
`
