package controller

import (
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPageController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
}

type pageController struct {
	chatService service.IChatService
}

func NewPageController(chatService service.IChatService) IPageController {
	return &pageController{
		chatService: chatService,
	}
}

func (c *pageController) RegisterRoutes(r fiber.Router) {
	r.Get("/", serverutils.EnsureSession, c.Index)
}

// Index establishes the session and serves the chat page. The page is a
// plain polling client; all state lives server-side.
func (c *pageController) Index(ctx *fiber.Ctx) error {
	c.chatService.OpenSession(serverutils.SessionId(ctx))
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.SendString(indexPage)
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Document Chat Assistant</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; }
#chat { border: 1px solid #ccc; padding: 1rem; min-height: 200px; }
#status { color: #666; font-style: italic; }
.user { font-weight: bold; }
</style>
</head>
<body>
<h1>Document Chat Assistant</h1>
<form id="upload-form">
  <input type="file" name="file" accept=".pdf,.mp4,.mov,.avi,.mkv" required>
  <button type="submit">Upload</button>
</form>
<p id="status">Ready</p>
<div id="chat"></div>
<form id="ask-form">
  <input type="text" id="question" placeholder="Ask about your document..." size="60">
  <button type="submit">Ask</button>
</form>
<script>
const statusEl = document.getElementById('status');
const chatEl = document.getElementById('chat');

async function poll() {
  const res = await fetch('/status');
  if (!res.ok) return;
  const data = await res.json();
  statusEl.textContent = data.status;
  if (!data.is_processing) {
    await refreshMessages();
  } else {
    setTimeout(poll, 1000);
  }
}

async function refreshMessages() {
  const res = await fetch('/messages');
  if (!res.ok) return;
  const data = await res.json();
  chatEl.innerHTML = '';
  for (const m of data.messages) {
    const div = document.createElement('div');
    if (m.role === 'user') {
      div.className = 'user';
      div.textContent = m.content;
    } else {
      div.innerHTML = m.content;
    }
    chatEl.appendChild(div);
  }
}

document.getElementById('upload-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const body = new FormData(e.target);
  const res = await fetch('/upload', { method: 'POST', body });
  const data = await res.json();
  statusEl.textContent = data.message || data.error;
  if (res.ok) poll();
});

document.getElementById('ask-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const question = document.getElementById('question').value;
  const res = await fetch('/ask', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ question })
  });
  const data = await res.json();
  statusEl.textContent = data.message || data.error;
  if (res.ok) {
    document.getElementById('question').value = '';
    poll();
  }
});
</script>
</body>
</html>
`
