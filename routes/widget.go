package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// widgetScript is a minimal embeddable chat widget. Sites include it with
// <script src=".../widget.js" data-project-id="..." data-token="..."></script>
// and it talks to the chat endpoint of the same origin it was loaded from.
const widgetScript = `(function () {
  var script = document.currentScript;
  var projectId = script.getAttribute('data-project-id');
  var token = script.getAttribute('data-token');
  var apiUrl = script.getAttribute('data-api-url') || new URL(script.src).origin;
  if (!projectId) { console.error('elasti-widget: data-project-id is required'); return; }

  var container = document.createElement('div');
  container.id = 'elasti-widget';
  document.body.appendChild(container);
  var shadow = container.attachShadow({ mode: 'open' });
  shadow.innerHTML =
    '<style>' +
    '.btn{position:fixed;bottom:20px;right:20px;width:56px;height:56px;border-radius:50%;' +
    'background:#4a5ac8;color:#fff;border:none;cursor:pointer;font-size:24px;z-index:9999}' +
    '.panel{position:fixed;bottom:88px;right:20px;width:340px;height:460px;background:#fff;' +
    'border-radius:12px;box-shadow:0 8px 30px rgba(0,0,0,.25);display:none;flex-direction:column;' +
    'font-family:sans-serif;z-index:9998}' +
    '.panel.open{display:flex}' +
    '.log{flex:1;overflow-y:auto;padding:12px;font-size:14px}' +
    '.msg{margin:6px 0;padding:8px 10px;border-radius:8px;white-space:pre-wrap}' +
    '.user{background:#e8eaf6;margin-left:30px}.bot{background:#f5f5f5;margin-right:30px}' +
    '.src{font-size:12px;margin-top:4px}.src a{color:#4a5ac8}' +
    'form{display:flex;border-top:1px solid #eee}' +
    'input{flex:1;border:none;padding:12px;font-size:14px;outline:none}' +
    'button[type=submit]{border:none;background:none;padding:0 14px;cursor:pointer;color:#4a5ac8}' +
    '</style>' +
    '<button class="btn">?</button>' +
    '<div class="panel"><div class="log"></div>' +
    '<form><input placeholder="Ask a question..."><button type="submit">Send</button></form></div>';

  var btn = shadow.querySelector('.btn');
  var panel = shadow.querySelector('.panel');
  var log = shadow.querySelector('.log');
  var form = shadow.querySelector('form');
  var input = shadow.querySelector('input');

  btn.addEventListener('click', function () { panel.classList.toggle('open'); });

  function add(role, text, sources) {
    var div = document.createElement('div');
    div.className = 'msg ' + role;
    div.textContent = text;
    if (sources && sources.length) {
      var src = document.createElement('div');
      src.className = 'src';
      sources.forEach(function (s) {
        var a = document.createElement('a');
        a.href = s.url; a.target = '_blank'; a.textContent = s.title || s.url;
        src.appendChild(a); src.appendChild(document.createTextNode(' '));
      });
      div.appendChild(src);
    }
    log.appendChild(div);
    log.scrollTop = log.scrollHeight;
  }

  add('bot', 'Hi! Ask me anything about this website.');

  form.addEventListener('submit', function (e) {
    e.preventDefault();
    var question = input.value.trim();
    if (!question) return;
    add('user', question);
    input.value = '';
    fetch(apiUrl + '/api/chat', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json', 'Authorization': 'Bearer ' + token },
      body: JSON.stringify({ projectId: projectId, question: question })
    }).then(function (r) { return r.json(); }).then(function (data) {
      add('bot', data.answer || data.message || 'Something went wrong.', data.sources);
    }).catch(function () {
      add('bot', 'Something went wrong. Please try again.');
    });
  });
})();
`

func SetupWidgetRoutes(router *gin.Engine) {
	router.GET("/widget.js", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(widgetScript))
	})
}
