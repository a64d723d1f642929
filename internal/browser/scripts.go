package browser

// keyBinding is the page-side function the key handler calls
const keyBinding = "vimnavKey"

// snapshotScript tags every element with RefAttr and returns the element
// tree as a flat pre-order list. Marker spans are skipped.
const snapshotScript = `(() => {
  const out = [];
  const keep = ["href", "onclick", "tabindex", "type", "contenteditable", "hidden", "id", "name"];
  const refOf = (el) => {
    let ref = el.getAttribute("data-vimnav-id");
    if (!ref) {
      window.__vimnavSeq = (window.__vimnavSeq || 0) + 1;
      ref = String(window.__vimnavSeq);
      el.setAttribute("data-vimnav-id", ref);
    }
    return ref;
  };
  const visit = (el, parent) => {
    if (el.hasAttribute("data-vimnav-marker")) return;
    const attrs = {};
    for (const name of keep) {
      if (el.hasAttribute(name)) attrs[name] = el.getAttribute(name);
    }
    const op = el.offsetParent;
    const idx = out.length;
    out.push({
      ref: refOf(el),
      parent: parent,
      name: el.nodeName.toLowerCase(),
      attrs: attrs,
      display: el.style ? el.style.display : "",
      visibility: el.style ? el.style.visibility : "",
      top: el.offsetTop || 0,
      left: el.offsetLeft || 0,
      width: el.offsetWidth || 0,
      height: el.offsetHeight || 0,
      offsetParent: op && op.getAttribute ? (op.getAttribute("data-vimnav-id") || "") : "",
    });
    for (const c of el.children) visit(c, idx);
  };
  if (document.documentElement) visit(document.documentElement, -1);
  return out;
})()`

// createMarkersScript inserts one hidden span before each target
const createMarkersScript = `(p) => {
  const errs = [];
  for (const m of p.markers) {
    try {
      const t = document.querySelector('[data-vimnav-id="' + m.ref + '"]');
      if (!t || !t.parentNode) throw new Error("target " + m.ref + " not found");
      const s = document.createElement("span");
      s.id = p.style.marker_id;
      s.setAttribute("data-vimnav-marker", String(m.index));
      s.style.position = "absolute";
      if (m.pos) {
        s.style.left = m.pos.left + "px";
        s.style.top = m.pos.top + "px";
      }
      s.style.width = "auto";
      s.style.padding = "1px";
      s.style.border = "1px dashed darkgray";
      s.style.fontSize = p.style.font_size;
      s.style.fontWeight = "bold";
      s.style.textTransform = "none";
      s.style.zIndex = "2147483647";
      s.style.opacity = String(p.style.opacity);
      s.style.color = p.style.color;
      s.style.background = p.style.background;
      s.style.visibility = "hidden";
      s.textContent = m.label;
      t.parentNode.insertBefore(s, t);
    } catch (e) {
      errs.push("marker " + m.index + ": " + e.message);
    }
  }
  return errs;
}`

// updateMarkersScript applies views to existing spans
const updateMarkersScript = `(p) => {
  const errs = [];
  for (const v of p.views) {
    try {
      const s = document.querySelector('span[data-vimnav-marker="' + v.index + '"]');
      if (!s) throw new Error("not found");
      const c = p.colors[v.state];
      s.textContent = v.text;
      s.style.color = c.fg;
      s.style.background = c.bg;
      s.style.visibility = v.visible ? "visible" : "hidden";
    } catch (e) {
      errs.push("marker " + v.index + ": " + e.message);
    }
  }
  return errs;
}`

// removeMarkersScript detaches spans by index
const removeMarkersScript = `(p) => {
  const errs = [];
  for (const i of p.indices) {
    try {
      const s = document.querySelector('span[data-vimnav-marker="' + i + '"]');
      if (s && s.parentNode) s.parentNode.removeChild(s);
    } catch (e) {
      errs.push("marker " + i + ": " + e.message);
    }
  }
  return errs;
}`

// activateScript performs one step of an element activation
const activateScript = `(p) => {
  if (p.action === "navigate") {
    window.location.assign(p.href);
    return true;
  }
  if (p.action === "open") {
    window.open(p.href, "_blank");
    return true;
  }
  const el = document.querySelector('[data-vimnav-id="' + p.ref + '"]');
  if (!el) throw new Error("element " + p.ref + " is gone");
  switch (p.action) {
  case "click":
    el.click();
    break;
  case "dispatch":
    el.dispatchEvent(new MouseEvent("click", {bubbles: true, cancelable: true, view: window}));
    break;
  case "focus":
    el.focus();
    break;
  case "select":
    if (typeof el.select === "function") el.select();
    break;
  default:
    throw new Error("unknown action " + p.action);
  }
  return true;
}`

// scrollScript scrolls by pixels and window heights, or to an edge
const scrollScript = `(p) => {
  const h = window.innerHeight - Math.max(window.innerHeight / 10, 2);
  if (p.to === "top") {
    window.scroll(window.scrollX, 0);
  } else if (p.to === "bottom") {
    window.scroll(window.scrollX, document.documentElement.scrollHeight);
  } else {
    window.scrollBy(p.x, p.y + p.pages * h);
  }
  return true;
}`

// noticeScript shows a toast that fades out on its own
const noticeScript = `(p) => {
  const d = document.createElement("div");
  d.setAttribute("data-vimnav-marker", "notice");
  d.textContent = p.text;
  d.style.cssText = "position:fixed;right:16px;bottom:16px;z-index:2147483647;" +
    "max-width:40em;padding:8px 12px;white-space:pre-line;font:13px sans-serif;" +
    "color:#fff;background:rgba(40,40,40,.9);border-radius:4px";
  (document.body || document.documentElement).appendChild(d);
  setTimeout(() => d.remove(), p.ms);
  return true;
}`

// keyHandlerScript forwards key events to the binding. It installs itself
// once per document.
const keyHandlerScript = `(() => {
  if (window.__vimnavInstalled) return;
  window.__vimnavInstalled = true;
  const editable = (el) => {
    if (document.designMode === "on") return true;
    if (!el || !el.nodeName) return false;
    const n = el.nodeName.toLowerCase();
    if (n === "textarea") return true;
    if (n === "input") {
      const t = (el.getAttribute("type") || "text").toLowerCase();
      return t === "text" || t === "password";
    }
    return el.isContentEditable === true;
  };
  const send = (e, phase) => {
    if (typeof window.vimnavKey !== "function") return;
    if (window.__vimnavHinting) {
      e.preventDefault();
      e.stopPropagation();
    }
    window.vimnavKey(JSON.stringify({
      code: e.keyCode, shift: e.shiftKey, ctrl: e.ctrlKey,
      phase: phase, editable: editable(e.target),
    }));
  };
  window.addEventListener("keydown", (e) => send(e, "down"), true);
  window.addEventListener("keyup", (e) => send(e, "up"), true);
})()`
