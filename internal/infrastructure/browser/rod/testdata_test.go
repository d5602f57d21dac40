package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1 id="title">Hello World</h1>
</body>
</html>`

	HiddenHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="hidden" style="display:none">Secret</div>
	<p id="shown">Shown</p>
</body>
</html>`

	DelayedHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="root"></div>
	<script>
		setTimeout(function() {
			var el = document.createElement('span');
			el.id = 'late';
			el.textContent = 'Arrived';
			document.getElementById('root').appendChild(el);
		}, 300);
	</script>
</body>
</html>`

	WideHTML = `<!DOCTYPE html>
<html>
<body style="width: 2000px; height: 1500px;">
	<h1>Large Page</h1>
</body>
</html>`
)
