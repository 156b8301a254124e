package finding

// notification is a trimmed Security Command Center notification.
const notification = `{
  "notificationConfigName": "organizations/1234/notificationConfigs/teams",
  "finding": {
    "name": "organizations/1234/sources/5678/findings/abcd",
    "state": "ACTIVE",
    "category": "PUBLIC_BUCKET_ACL",
    "severity": "HIGH",
    "findingClass": "MISCONFIGURATION",
    "eventTime": "2024-05-02T10:11:12.345Z",
    "externalUri": "https://console.cloud.google.com/storage/browser/demo-bucket",
    "sourceProperties": {
      "Explanation": "The bucket is readable by allUsers.",
      "Recommendation": "Remove public access.",
      "gcloud_remediation": "gsutil iam ch -d allUsers gs://demo-bucket",
      "ReactivationCount": 0
    },
    "contacts": {
      "security": {"contacts": [{"email": "sec@example.com"}]},
      "technical": {"contacts": [{"email": "ops@example.com", "name": "Ops"}]}
    }
  },
  "resource": {
    "name": "//storage.googleapis.com/demo-bucket",
    "type": "google.cloud.storage.Bucket",
    "gcpMetadata": {"projectDisplayName": "demo-project"}
  }
}`
