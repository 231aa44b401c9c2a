package observe

// script is injected once per page via Runtime.evaluate. It installs a
// MutationObserver plus two targeted listeners (focusin, submit) and
// forwards batches to the Go side through the
// __pageperceive_observe binding, the same binding-call pattern the
// teacher's observer.js uses. Each batch is capped client-side so one
// noisy page can't flood the binding.
const script = `
(function () {
  if (window.__pageperceiveObserverInstalled) return;
  window.__pageperceiveObserverInstalled = true;

  var MAX_BATCH = 10;
  var pending = [];
  var flushTimer = null;

  function send() {
    if (!pending.length) return;
    var batch = pending.slice(0, MAX_BATCH);
    pending = [];
    try {
      window.__pageperceive_observe(JSON.stringify(batch));
    } catch (e) {}
  }

  function schedule() {
    if (flushTimer) return;
    flushTimer = setTimeout(function () {
      flushTimer = null;
      send();
    }, 150);
  }

  function push(rec) {
    if (pending.length >= MAX_BATCH * 4) return;
    rec.t = Date.now();
    pending.push(rec);
    schedule();
  }

  var excluded = { SCRIPT: 1, STYLE: 1, NOSCRIPT: 1, TEMPLATE: 1, SVG: 1 };

  var mo = new MutationObserver(function (mutations) {
    for (var i = 0; i < mutations.length; i++) {
      var m = mutations[i];
      var tag = m.target && m.target.tagName;
      if (tag && excluded[tag]) continue;
      push({
        op: m.type,
        tag: tag || '',
        attr: m.attributeName || '',
        added: m.addedNodes ? m.addedNodes.length : 0,
        removed: m.removedNodes ? m.removedNodes.length : 0
      });
    }
  });
  mo.observe(document.documentElement, {
    childList: true, attributes: true, characterData: true, subtree: true
  });

  document.addEventListener('focusin', function (e) {
    push({ op: 'focus', tag: e.target && e.target.tagName });
  }, true);

  document.addEventListener('submit', function (e) {
    push({ op: 'submit', tag: e.target && e.target.tagName });
  }, true);
})();
`
