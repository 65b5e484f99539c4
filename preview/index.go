package preview

const indexHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
    <style type="text/css">
      canvas { border: 1px solid black; }
    </style>
    <script src="https://unpkg.com/zdog@1/dist/zdog.dist.js"></script>
  </head>
  <body>
    <canvas class="ncp-view" width="%d" height="%d"></canvas>
    <script type="text/javascript">
document.title = %s

const config = {
%s
}

const cmds = [
%s
]
    </script>
    <script type="text/javascript">
let ncpView = document.querySelector(".ncp-view")

let illo = new Zdog.Illustration({
  element: ncpView,
  scale: {x: 1.0, y: -1.0, z: 1.0},
  zoom: config.zoom,
  dragRotate: false,
})

ncpView.onwheel = function(event) {
  event.preventDefault()
  illo.zoom -= (event.deltaY * 0.01)
  if (illo.zoom < 0.1) {
    illo.zoom = 0.1
  }
  illo.updateRenderGraph()
}

let workspace = new Zdog.Anchor({
  addTo: illo,
  translate: {x: -config.center.x, y: -config.center.y, z: 0},
})

// Axes
new Zdog.Shape({
  addTo: workspace,
  stroke: 0.1,
  color: 'red',
  path: [
    {x: -1, y: 0},
    {x: 1, y: 0},
  ],
})

new Zdog.Shape({
  addTo: workspace,
  stroke: 0.1,
  color: 'green',
  path: [
    {x: 0, y: -1},
    {x: 0, y: 1},
  ],
})

let curPt = {x: 0, y: 0}

function linearTo(pt) {
  new Zdog.Shape({
    addTo: workspace,
    stroke: 0.05,
    color: 'black',
    path: [curPt, pt],
  })
  curPt = pt
}

function center(pt) {
  new Zdog.Shape({
    addTo: workspace,
    stroke: 0.2,
    color: 'blue',
    translate: pt,
  })
}

function draw(cmd) {
  if (cmd.linearTo !== undefined) {
    linearTo(cmd.linearTo)
  } else if (cmd.center !== undefined) {
    center(cmd.center)
  }
}

if (config.animate) {
  let next = 0
  function frame() {
    for (let n = 0; n < config.perFrame && next < cmds.length; n++) {
      draw(cmds[next++])
    }
    illo.updateRenderGraph()
    if (next < cmds.length) {
      requestAnimationFrame(frame)
    }
  }
  requestAnimationFrame(frame)
} else {
  for (cmd of cmds) {
    draw(cmd)
  }
  illo.updateRenderGraph()
}
    </script>
 </body>
</html>
`
